package files

import (
	"context"
	"fmt"
	"io"
)

// UserFiles groups the file operations that belong to a user: profile picture
// and NID document images, all at fixed per-user paths.
type UserFiles struct {
	svc *Service
}

// NewUserFiles creates a UserFiles facade over the storage service.
func NewUserFiles(svc *Service) *UserFiles {
	return &UserFiles{svc: svc}
}

// StoreProfilePicture uploads a user's profile picture, overwriting any
// previous one, and returns metadata carrying a fresh secure URL.
func (u *UserFiles) StoreProfilePicture(ctx context.Context, userID int64, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	meta, err := u.svc.Store(ctx, ProfilePicturePath(userID), reader, size, contentType)
	if err != nil {
		return nil, err
	}
	meta.SecureURL, err = u.ProfilePictureURL(userID)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// StoreNidFront uploads the front image of a user's NID.
func (u *UserFiles) StoreNidFront(ctx context.Context, userID int64, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	meta, err := u.svc.Store(ctx, NidFrontPath(userID), reader, size, contentType)
	if err != nil {
		return nil, err
	}
	meta.SecureURL, err = u.NidFrontURL(userID)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// StoreNidBack uploads the back image of a user's NID.
func (u *UserFiles) StoreNidBack(ctx context.Context, userID int64, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	meta, err := u.svc.Store(ctx, NidBackPath(userID), reader, size, contentType)
	if err != nil {
		return nil, err
	}
	meta.SecureURL, err = u.NidBackURL(userID)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// ProfilePictureURL mints a secure URL for the user's profile picture.
func (u *UserFiles) ProfilePictureURL(userID int64) (string, error) {
	route := fmt.Sprintf("users/%d/profile-picture", userID)
	return u.svc.SecureURL(ProfilePicturePath(userID), route)
}

// NidFrontURL mints a secure URL for the user's NID front image.
func (u *UserFiles) NidFrontURL(userID int64) (string, error) {
	route := fmt.Sprintf("users/%d/nid/front", userID)
	return u.svc.SecureURL(NidFrontPath(userID), route)
}

// NidBackURL mints a secure URL for the user's NID back image.
func (u *UserFiles) NidBackURL(userID int64) (string, error) {
	route := fmt.Sprintf("users/%d/nid/back", userID)
	return u.svc.SecureURL(NidBackPath(userID), route)
}

// DeleteProfilePicture removes the user's profile picture.
func (u *UserFiles) DeleteProfilePicture(ctx context.Context, userID int64) error {
	return u.svc.Delete(ctx, ProfilePicturePath(userID))
}

// DeleteAll removes every well-known file of the user: profile picture and
// both NID images. Deletes are issued for all paths whether or not the objects
// exist; the operation is best-effort, not transactional. It returns an error
// only when at least one delete call failed, so partial failure is reported
// instead of claiming success.
func (u *UserFiles) DeleteAll(ctx context.Context, userID int64) error {
	paths := []string{
		ProfilePicturePath(userID),
		NidFrontPath(userID),
		NidBackPath(userID),
	}

	var failed []string
	for _, p := range paths {
		if err := u.svc.Delete(ctx, p); err != nil {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("delete user %d files: %d of %d deletes failed", userID, len(failed), len(paths))
	}
	return nil
}
