package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	info, err := s.Put(ctx, "a/b/c.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)

	rc, err := s.Get(ctx, "a/b/c.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	stat, err := s.Stat(ctx, "a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stat.Size)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Stat(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.PresignedURL(ctx, "nope", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Copy(ctx, "nope", "dst"))

	// Idempotent delete.
	assert.NoError(t, s.Delete(ctx, "nope"))
}

func TestMemoryStoreCopyIsIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Put(ctx, "src", strings.NewReader("one"), 3, "text/plain")
	require.NoError(t, err)
	require.NoError(t, s.Copy(ctx, "src", "dst"))

	// Overwriting the source leaves the copy intact.
	_, err = s.Put(ctx, "src", strings.NewReader("two"), 3, "text/plain")
	require.NoError(t, err)

	rc, err := s.Get(ctx, "dst")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "one", string(body))
}
