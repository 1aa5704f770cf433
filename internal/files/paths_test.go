package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPaths(t *testing.T) {
	assert.Equal(t, "users/profile/42/profile.jpg", ProfilePicturePath(42))
	assert.Equal(t, "documents/identity/nid/front/42/front.jpg", NidFrontPath(42))
	assert.Equal(t, "documents/identity/nid/back/42/back.jpg", NidBackPath(42))
	assert.Equal(t, "products/thumbnails/7/thumbnail.jpg", ProductThumbnailPath(7))
}

func TestProductImagePath(t *testing.T) {
	p, err := ProductImagePath(7, "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "products/7/photo.png", p)

	// Same inputs, same path.
	again, err := ProductImagePath(7, "photo.png")
	require.NoError(t, err)
	assert.Equal(t, p, again)

	// Distinct filenames coexist under the same product.
	other, err := ProductImagePath(7, "other.png")
	require.NoError(t, err)
	assert.NotEqual(t, p, other)
}

func TestPathsDeterministicAndInjective(t *testing.T) {
	builders := map[string]func(int64) string{
		"profile":   ProfilePicturePath,
		"nid front": NidFrontPath,
		"nid back":  NidBackPath,
		"thumbnail": ProductThumbnailPath,
	}

	for name, build := range builders {
		seen := map[string]int64{}
		for id := int64(1); id <= 500; id++ {
			p := build(id)
			assert.Equal(t, p, build(id), "%s path must be deterministic", name)
			if prev, dup := seen[p]; dup {
				t.Fatalf("%s path collision: ids %d and %d both map to %q", name, prev, id, p)
			}
			seen[p] = id
		}
	}
}

func TestSanitizeFilenameRejectsTraversal(t *testing.T) {
	bad := []string{
		"",
		"   ",
		".",
		"..",
		"../secret.jpg",
		"..\\secret.jpg",
		"a/../../etc/passwd",
		"sub/dir.jpg",
		"/etc/passwd",
		`C:\windows\system32`,
		"~root",
		"name..jpg",
	}
	for _, name := range bad {
		_, err := SanitizeFilename(name)
		assert.ErrorIs(t, err, ErrUnsafeFilename, "filename %q must be rejected", name)

		_, err = ProductImagePath(1, name)
		assert.ErrorIs(t, err, ErrUnsafeFilename, "product path for %q must be rejected", name)
	}
}

func TestSanitizeFilenameAcceptsPlainNames(t *testing.T) {
	good := []string{"photo.jpg", "img_001.png", "report.v2.pdf", "noextension"}
	for _, name := range good {
		clean, err := SanitizeFilename(name)
		require.NoError(t, err, "filename %q must be accepted", name)
		assert.Equal(t, name, clean)
	}
}
