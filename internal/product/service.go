package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/supan/storage-service/internal/files"
)

// Service contains business logic for the product catalog and the file
// workflows attached to a product.
type Service struct {
	repo         *Repository
	productFiles *files.ProductFiles
}

// NewService creates a new product Service.
func NewService(repo *Repository, productFiles *files.ProductFiles) *Service {
	return &Service{repo: repo, productFiles: productFiles}
}

// Create persists the product first (to obtain its id), then stores the
// thumbnail and gallery images under that id, and returns the product with
// its secure thumbnail URL.
func (s *Service) Create(ctx context.Context, name, description string, price float64, thumbnail *files.Upload, gallery []files.Upload) (*Product, error) {
	p, err := s.repo.Create(ctx, name, description, price)
	if err != nil {
		return nil, err
	}

	if thumbnail != nil {
		if _, err := s.productFiles.StoreThumbnail(ctx, p.ID, thumbnail.Reader, thumbnail.Size, thumbnail.ContentType); err != nil {
			return nil, fmt.Errorf("store thumbnail: %w", err)
		}
	}

	for _, img := range gallery {
		if _, err := s.productFiles.StoreImage(ctx, p.ID, img.Filename, img.Reader, img.Size, img.ContentType); err != nil {
			return nil, fmt.Errorf("store gallery image %q: %w", img.Filename, err)
		}
	}

	return s.GetWithImageURLs(ctx, p.ID)
}

// GetWithImageURLs returns a product with a freshly minted thumbnail URL.
func (s *Service) GetWithImageURLs(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ThumbnailURL, err = s.productFiles.ThumbnailURL(p.ID)
	if err != nil {
		return nil, fmt.Errorf("mint thumbnail url: %w", err)
	}
	return p, nil
}

// ListWithImageURLs returns all products, each with a fresh thumbnail URL.
func (s *Service) ListWithImageURLs(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		p.ThumbnailURL, err = s.productFiles.ThumbnailURL(p.ID)
		if err != nil {
			return nil, fmt.Errorf("mint thumbnail url for product %d: %w", p.ID, err)
		}
	}
	return products, nil
}

// StoreImage stores one gallery image for an existing product.
func (s *Service) StoreImage(ctx context.Context, id int64, upload files.Upload) (*files.FileMetadata, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.productFiles.StoreImage(ctx, id, upload.Filename, upload.Reader, upload.Size, upload.ContentType)
}

// StoreThumbnail stores the thumbnail for an existing product.
func (s *Service) StoreThumbnail(ctx context.Context, id int64, upload files.Upload) (*files.FileMetadata, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.productFiles.StoreThumbnail(ctx, id, upload.Reader, upload.Size, upload.ContentType)
}

// Delete removes the product's stored files and then the product record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.productFiles.DeleteAll(ctx, id); err != nil {
		return fmt.Errorf("delete product files: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// IsNotFound returns true when the error indicates a product was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
