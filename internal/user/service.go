package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/supan/storage-service/internal/files"
)

// StatusPendingReview is set once a user has uploaded both NID images.
const StatusPendingReview = "PENDING_REVIEW"

// Service contains business logic for user management and the file workflows
// attached to a user.
type Service struct {
	repo      *Repository
	userFiles *files.UserFiles
}

// NewService creates a new user Service.
func NewService(repo *Repository, userFiles *files.UserFiles) *Service {
	return &Service{repo: repo, userFiles: userFiles}
}

// Create registers a new user account.
func (s *Service) Create(ctx context.Context, username, email string) (*User, error) {
	u, err := s.repo.Create(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetWithImageURLs returns a user with freshly minted secure URLs attached.
// NID URLs are only exposed once the documents were uploaded.
func (s *Service) GetWithImageURLs(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.ProfilePictureURL, err = s.userFiles.ProfilePictureURL(u.ID)
	if err != nil {
		return nil, fmt.Errorf("mint profile picture url: %w", err)
	}

	if u.NidUploaded {
		u.NidFrontURL, err = s.userFiles.NidFrontURL(u.ID)
		if err != nil {
			return nil, fmt.Errorf("mint nid front url: %w", err)
		}
		u.NidBackURL, err = s.userFiles.NidBackURL(u.ID)
		if err != nil {
			return nil, fmt.Errorf("mint nid back url: %w", err)
		}
	}

	return u, nil
}

// StoreProfilePicture stores a new profile picture for the user and returns
// the upload's metadata carrying a fresh secure URL. The user must exist
// before any storage call is made.
func (s *Service) StoreProfilePicture(ctx context.Context, id int64, upload files.Upload) (*files.FileMetadata, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userFiles.StoreProfilePicture(ctx, id, upload.Reader, upload.Size, upload.ContentType)
}

// UploadNidImages stores both NID images for the user, marks the documents as
// uploaded, and moves the account into review.
func (s *Service) UploadNidImages(ctx context.Context, id int64, front, back files.Upload) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.userFiles.StoreNidFront(ctx, u.ID, front.Reader, front.Size, front.ContentType); err != nil {
		return nil, err
	}
	if _, err := s.userFiles.StoreNidBack(ctx, u.ID, back.Reader, back.Size, back.ContentType); err != nil {
		return nil, err
	}

	if err := s.repo.SetNidStatus(ctx, u.ID, true, StatusPendingReview); err != nil {
		return nil, err
	}

	u.NidUploaded = true
	u.VerificationStatus = StatusPendingReview
	return s.GetWithImageURLs(ctx, u.ID)
}

// StoreNidFront stores only the front NID image for an existing user.
func (s *Service) StoreNidFront(ctx context.Context, id int64, upload files.Upload) (*files.FileMetadata, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userFiles.StoreNidFront(ctx, id, upload.Reader, upload.Size, upload.ContentType)
}

// StoreNidBack stores only the back NID image for an existing user.
func (s *Service) StoreNidBack(ctx context.Context, id int64, upload files.Upload) (*files.FileMetadata, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userFiles.StoreNidBack(ctx, id, upload.Reader, upload.Size, upload.ContentType)
}

// Delete removes the user's stored files and then the user record. A file
// cleanup failure aborts the delete so the row never outlives an unreported
// partial cleanup.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.userFiles.DeleteAll(ctx, id); err != nil {
		return fmt.Errorf("delete user files: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// IsNotFound returns true when the error indicates a user was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
