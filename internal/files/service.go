package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/supan/storage-service/internal/storage"
)

// ErrEmptyFile is returned when an upload carries no content.
var ErrEmptyFile = errors.New("empty file")

// FileMetadata describes a stored file in API responses. The internal storage
// path is never serialized; clients only ever see the secure URL.
type FileMetadata struct {
	Path         string     `json:"-"`
	Filename     string     `json:"filename"`
	ContentType  string     `json:"contentType"`
	Size         int64      `json:"size"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	SecureURL    string     `json:"secureUrl,omitempty"`
}

// Service fronts the blob store: it stores, streams, stats, deletes, copies,
// and presigns objects, and composes token-gated secure URLs for external
// exposure. It holds no mutable state; every call is an independent
// request/response against the backend.
type Service struct {
	store   storage.Store
	tokens  *TokenService
	baseURL string
}

// NewService creates a Service over the given store and token service.
// baseURL is the externally visible origin used when composing secure URLs.
func NewService(store storage.Store, tokens *TokenService, baseURL string) *Service {
	return &Service{
		store:   store,
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Store uploads content to the given storage path and returns its metadata.
// Existing content at the path is overwritten silently.
func (s *Service) Store(ctx context.Context, storagePath string, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}

	info, err := s.store.Put(ctx, storagePath, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store file at %q: %w", storagePath, err)
	}

	return &FileMetadata{
		Path:        storagePath,
		Filename:    path.Base(storagePath),
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// StoreRandomName uploads content under basePath with a generated UUID name,
// keeping the extension of the original filename when it has one.
func (s *Service) StoreRandomName(ctx context.Context, basePath, originalFilename string, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	name := uuid.NewString()
	if ext := path.Ext(originalFilename); ext != "" && ext != "." {
		name += ext
	}
	return s.Store(ctx, basePath+"/"+name, reader, size, contentType)
}

// Open returns a read stream for the object at the given path. The caller
// must close the stream on every exit path.
func (s *Service) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	return s.store.Get(ctx, storagePath)
}

// Metadata stats the object at the given path and returns its metadata.
func (s *Service) Metadata(ctx context.Context, storagePath string) (*FileMetadata, error) {
	info, err := s.store.Stat(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("stat file at %q: %w", storagePath, err)
	}

	modified := info.LastModified
	return &FileMetadata{
		Path:         storagePath,
		Filename:     path.Base(storagePath),
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: &modified,
	}, nil
}

// Exists reports whether an object is present at the given path.
func (s *Service) Exists(ctx context.Context, storagePath string) bool {
	_, err := s.store.Stat(ctx, storagePath)
	return err == nil
}

// Delete removes the object at the given path. Deleting a missing object is
// treated as already-deleted and succeeds.
func (s *Service) Delete(ctx context.Context, storagePath string) error {
	if err := s.store.Delete(ctx, storagePath); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete file at %q: %w", storagePath, err)
	}
	return nil
}

// Copy duplicates the object at src under dst.
func (s *Service) Copy(ctx context.Context, src, dst string) error {
	if err := s.store.Copy(ctx, src, dst); err != nil {
		return fmt.Errorf("copy file %q to %q: %w", src, dst, err)
	}
	return nil
}

// Move copies the object at src to dst and deletes the source.
func (s *Service) Move(ctx context.Context, src, dst string) error {
	if err := s.Copy(ctx, src, dst); err != nil {
		return err
	}
	return s.Delete(ctx, src)
}

// DirectDownloadURL returns a presigned URL that bypasses the token system,
// for callers that need to hand the backend URL straight to a client.
func (s *Service) DirectDownloadURL(ctx context.Context, storagePath string, expiry time.Duration) (string, error) {
	return s.store.PresignedURL(ctx, storagePath, expiry)
}

// SecureURL issues a capability token bound to storagePath and composes the
// externally visible download URL. route is the human-readable tail under
// /api/files; it identifies the resource for readers and caches only — the
// server resolves the object strictly from the token's bound path.
func (s *Service) SecureURL(storagePath, route string) (string, error) {
	token, err := s.tokens.IssueDefault(storagePath)
	if err != nil {
		return "", fmt.Errorf("issue token for %q: %w", storagePath, err)
	}
	return fmt.Sprintf("%s/api/files/%s?token=%s", s.baseURL, strings.TrimLeft(route, "/"), token), nil
}
