package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local development.
// Objects live in a map guarded by a mutex; overwrite is last-writer-wins,
// matching the backend semantics the facade is built against.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject)}
}

// Put buffers reader fully and stores it under key.
func (s *MemoryStore) Put(_ context.Context, key string, reader io.Reader, _ int64, contentType string) (ObjectInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read payload for %q: %w", key, err)
	}

	obj := memObject{data: data, contentType: contentType, lastModified: time.Now()}

	s.mu.Lock()
	s.objects[key] = obj
	s.mu.Unlock()

	return ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  contentType,
		LastModified: obj.lastModified,
	}, nil
}

// Get returns a reader over a copy of the stored bytes.
func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get object %q: %w", key, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Stat returns metadata for the object at key.
func (s *MemoryStore) Stat(_ context.Context, key string) (ObjectInfo, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return ObjectInfo{}, fmt.Errorf("stat object %q: %w", key, ErrNotFound)
	}
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.lastModified,
	}, nil
}

// Delete removes the object at key; deleting a missing key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Copy duplicates the object at src under dst.
func (s *MemoryStore) Copy(_ context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[src]
	if !ok {
		return fmt.Errorf("copy object %q: %w", src, ErrNotFound)
	}
	dup := memObject{
		data:         append([]byte(nil), obj.data...),
		contentType:  obj.contentType,
		lastModified: time.Now(),
	}
	s.objects[dst] = dup
	return nil
}

// PresignedURL returns a synthetic URL; MemoryStore has no HTTP surface of its own.
func (s *MemoryStore) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("presign object %q: %w", key, ErrNotFound)
	}
	return fmt.Sprintf("memory://%s?expires=%d", key, int64(expiry.Seconds())), nil
}

var _ Store = (*MemoryStore)(nil)
