package files

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supan/storage-service/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	tokens := NewTokenService("test-secret", 5*time.Minute)
	return NewService(store, tokens, "http://localhost:8080"), store
}

func TestStoreAndOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	path := ProfilePicturePath(42)
	meta, err := svc.Store(ctx, path, strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "profile.jpg", meta.Filename)
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.Equal(t, int64(3), meta.Size)
	assert.Equal(t, path, meta.Path)

	stream, err := svc.Open(ctx, path)
	require.NoError(t, err)
	defer stream.Close()

	body, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}

func TestStoreRejectsEmptyFile(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Store(context.Background(), ProfilePicturePath(1), strings.NewReader(""), 0, "image/jpeg")
	assert.ErrorIs(t, err, ErrEmptyFile)

	// Nothing reached the backend.
	assert.False(t, svc.Exists(context.Background(), ProfilePicturePath(1)))
	_, statErr := store.Stat(context.Background(), ProfilePicturePath(1))
	assert.ErrorIs(t, statErr, storage.ErrNotFound)
}

func TestStoreOverwritesFixedPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	path := ProfilePicturePath(42)

	_, err := svc.Store(ctx, path, strings.NewReader("first"), 5, "image/jpeg")
	require.NoError(t, err)
	_, err = svc.Store(ctx, path, strings.NewReader("second"), 6, "image/jpeg")
	require.NoError(t, err)

	stream, err := svc.Open(ctx, path)
	require.NoError(t, err)
	defer stream.Close()

	body, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body), "re-upload must replace, not duplicate")
}

func TestStoreRandomNameKeepsExtension(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	meta, err := svc.StoreRandomName(ctx, Temporary, "upload.png", strings.NewReader("xx"), 2, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(meta.Path, Temporary+"/"))
	assert.True(t, strings.HasSuffix(meta.Filename, ".png"))
	assert.NotEqual(t, "upload.png", meta.Filename)

	// A second store of the same original name lands on a distinct path.
	again, err := svc.StoreRandomName(ctx, Temporary, "upload.png", strings.NewReader("yy"), 2, "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, meta.Path, again.Path)
}

func TestMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	path := ProductThumbnailPath(7)

	_, err := svc.Store(ctx, path, strings.NewReader("thumb"), 5, "image/jpeg")
	require.NoError(t, err)

	meta, err := svc.Metadata(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "thumbnail.jpg", meta.Filename)
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.Equal(t, int64(5), meta.Size)
	require.NotNil(t, meta.LastModified)
	assert.WithinDuration(t, time.Now(), *meta.LastModified, time.Minute)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	path := ProfilePicturePath(5)

	_, err := svc.Store(ctx, path, strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, path))
	assert.False(t, svc.Exists(ctx, path))

	// Deleting an already-deleted object succeeds.
	require.NoError(t, svc.Delete(ctx, path))
}

func TestCopyAndMove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	src := Temporary + "/staged.jpg"
	dst := ProfilePicturePath(3)

	_, err := svc.Store(ctx, src, strings.NewReader("payload"), 7, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.Copy(ctx, src, dst))
	assert.True(t, svc.Exists(ctx, src))
	assert.True(t, svc.Exists(ctx, dst))

	dst2 := ProfilePicturePath(4)
	require.NoError(t, svc.Move(ctx, src, dst2))
	assert.False(t, svc.Exists(ctx, src))
	assert.True(t, svc.Exists(ctx, dst2))

	assert.Error(t, svc.Copy(ctx, "temp/does-not-exist.jpg", dst))
}

func TestDirectDownloadURL(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	path := ProductThumbnailPath(9)

	_, err := svc.Store(ctx, path, strings.NewReader("t"), 1, "image/jpeg")
	require.NoError(t, err)

	u, err := svc.DirectDownloadURL(ctx, path, 10*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, path)

	_, err = svc.DirectDownloadURL(ctx, "temp/missing.bin", time.Minute)
	assert.Error(t, err)
}

func TestSecureURLComposition(t *testing.T) {
	svc, _ := newTestService(t)

	raw, err := svc.SecureURL(ProfilePicturePath(42), "users/42/profile-picture")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/files/users/42/profile-picture", parsed.Path)

	// The token, not the route, binds the path.
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)

	tokens := NewTokenService("test-secret", 5*time.Minute)
	path, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, ProfilePicturePath(42), path)
}

func TestUserFilesDeleteAll(t *testing.T) {
	svc, store := newTestService(t)
	userFiles := NewUserFiles(svc)
	ctx := context.Background()

	// Only the profile picture exists; NID paths were never uploaded.
	_, err := svc.Store(ctx, ProfilePicturePath(99), strings.NewReader("pic"), 3, "image/jpeg")
	require.NoError(t, err)

	// Best-effort bulk delete succeeds even though two of three objects are absent.
	require.NoError(t, userFiles.DeleteAll(ctx, 99))

	_, err = store.Stat(ctx, ProfilePicturePath(99))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserFilesStoreMintsSecureURL(t *testing.T) {
	svc, _ := newTestService(t)
	userFiles := NewUserFiles(svc)
	ctx := context.Background()

	meta, err := userFiles.StoreProfilePicture(ctx, 42, strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, meta.SecureURL)
	assert.Contains(t, meta.SecureURL, "/api/files/users/42/profile-picture?token=")

	front, err := userFiles.StoreNidFront(ctx, 42, strings.NewReader("f"), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, front.SecureURL, "/api/files/users/42/nid/front?token=")

	back, err := userFiles.StoreNidBack(ctx, 42, strings.NewReader("b"), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, back.SecureURL, "/api/files/users/42/nid/back?token=")
}

func TestProductFiles(t *testing.T) {
	svc, store := newTestService(t)
	productFiles := NewProductFiles(svc)
	ctx := context.Background()

	meta, err := productFiles.StoreImage(ctx, 7, "photo.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "photo.png", meta.Filename)
	assert.Contains(t, meta.SecureURL, "/api/files/products/7/images/photo.png?token=")

	_, err = productFiles.StoreImage(ctx, 7, "../escape.png", strings.NewReader("img"), 3, "image/png")
	assert.ErrorIs(t, err, ErrUnsafeFilename)

	thumb, err := productFiles.StoreThumbnail(ctx, 7, strings.NewReader("th"), 2, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "thumbnail.jpg", thumb.Filename)

	require.NoError(t, productFiles.DeleteAll(ctx, 7))
	_, err = store.Stat(ctx, ProductThumbnailPath(7))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Gallery images are untracked and survive the fixed-path cleanup.
	assert.True(t, svc.Exists(ctx, "products/7/photo.png"))
}
