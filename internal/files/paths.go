// Package files maps domain entities to storage paths, gates reads behind
// short-lived capability tokens, and fronts the blob store for uploads,
// downloads, and deletes.
package files

import (
	"errors"
	"fmt"
	"strings"
)

// Base namespaces of the storage bucket. Paths are composed only through the
// builder functions below so the layout stays consistent across the application.
const (
	ProductImages = "products"
	UserImages    = "users"
	Documents     = "documents"
	Temporary     = "temp"
)

// Sub-namespaces.
const (
	ProfilePictures   = UserImages + "/profile"
	UserDocuments     = UserImages + "/documents"
	IdentityDocuments = Documents + "/identity"
	NidFront          = IdentityDocuments + "/nid/front"
	NidBack           = IdentityDocuments + "/nid/back"
	Passport          = IdentityDocuments + "/passport"
	ProductThumbnails = ProductImages + "/thumbnails"
	ProductGallery    = ProductImages + "/gallery"
)

// ErrUnsafeFilename is returned when a caller-supplied filename could escape
// its namespace (path separators, parent references, absolute markers).
var ErrUnsafeFilename = errors.New("unsafe filename")

// ProfilePicturePath returns the fixed path of a user's profile picture.
// Re-uploads overwrite the same object.
func ProfilePicturePath(userID int64) string {
	return fmt.Sprintf("%s/%d/profile.jpg", ProfilePictures, userID)
}

// NidFrontPath returns the fixed path of a user's NID front image.
func NidFrontPath(userID int64) string {
	return fmt.Sprintf("%s/%d/front.jpg", NidFront, userID)
}

// NidBackPath returns the fixed path of a user's NID back image.
func NidBackPath(userID int64) string {
	return fmt.Sprintf("%s/%d/back.jpg", NidBack, userID)
}

// ProductImagePath returns the path of a product gallery image. Distinct
// filenames coexist under the same product; an identical filename overwrites.
func ProductImagePath(productID int64, filename string) (string, error) {
	clean, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%s", ProductImages, productID, clean), nil
}

// ProductThumbnailPath returns the fixed path of a product's thumbnail.
func ProductThumbnailPath(productID int64) string {
	return fmt.Sprintf("%s/%d/thumbnail.jpg", ProductThumbnails, productID)
}

// SanitizeFilename validates a caller-supplied filename for use as the final
// path segment. It rejects rather than rewrites: a name with separators or
// parent references is an error, not something to silently fix.
func SanitizeFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	switch {
	case name == "" || name == "." || name == "..":
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	case strings.ContainsAny(name, `/\`):
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	case strings.Contains(name, ".."):
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	case strings.HasPrefix(name, "~"):
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
	}
	return name, nil
}
