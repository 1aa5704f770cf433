// Package storage defines the blob store boundary for object operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, ArvanCloud, AWS S3).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object exists at the requested key.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored object as reported by the backend.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store is the interface for reading and writing objects in a single bucket.
type Store interface {
	// Put streams data to the store under the given key, overwriting any
	// existing object. size must be the exact byte count (pass -1 only if
	// the size is genuinely unknown — the backend will buffer it).
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (ObjectInfo, error)
	// Get opens a read stream for the object at key. The caller must close it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat returns metadata for the object at key without fetching the body.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// Copy duplicates the object at src under dst within the bucket.
	Copy(ctx context.Context, src, dst string) error
	// PresignedURL returns a time-limited direct download URL for the object.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
