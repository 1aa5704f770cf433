package files

import (
	"context"
	"fmt"
	"io"
)

// ProductFiles groups the file operations that belong to a product: the fixed
// thumbnail path and the per-filename gallery images.
type ProductFiles struct {
	svc *Service
}

// NewProductFiles creates a ProductFiles facade over the storage service.
func NewProductFiles(svc *Service) *ProductFiles {
	return &ProductFiles{svc: svc}
}

// StoreImage uploads a gallery image under the product keeping the original
// filename, so distinct filenames coexist and re-uploads of the same name
// overwrite. The filename is validated before any backend call.
func (p *ProductFiles) StoreImage(ctx context.Context, productID int64, filename string, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	imagePath, err := ProductImagePath(productID, filename)
	if err != nil {
		return nil, err
	}
	meta, err := p.svc.Store(ctx, imagePath, reader, size, contentType)
	if err != nil {
		return nil, err
	}
	meta.SecureURL, err = p.ImageURL(productID, meta.Filename)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// StoreThumbnail uploads the product thumbnail, overwriting any previous one.
func (p *ProductFiles) StoreThumbnail(ctx context.Context, productID int64, reader io.Reader, size int64, contentType string) (*FileMetadata, error) {
	meta, err := p.svc.Store(ctx, ProductThumbnailPath(productID), reader, size, contentType)
	if err != nil {
		return nil, err
	}
	meta.SecureURL, err = p.ThumbnailURL(productID)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// ImageURL mints a secure URL for a product gallery image.
func (p *ProductFiles) ImageURL(productID int64, filename string) (string, error) {
	imagePath, err := ProductImagePath(productID, filename)
	if err != nil {
		return "", err
	}
	route := fmt.Sprintf("products/%d/images/%s", productID, filename)
	return p.svc.SecureURL(imagePath, route)
}

// ThumbnailURL mints a secure URL for the product thumbnail.
func (p *ProductFiles) ThumbnailURL(productID int64) (string, error) {
	route := fmt.Sprintf("products/%d/thumbnail", productID)
	return p.svc.SecureURL(ProductThumbnailPath(productID), route)
}

// DeleteAll removes the well-known files of the product. Gallery filenames are
// not tracked anywhere, so only the fixed thumbnail path can be enumerated;
// listing the product prefix in the backend would be the extension point for
// full gallery cleanup.
func (p *ProductFiles) DeleteAll(ctx context.Context, productID int64) error {
	if err := p.svc.Delete(ctx, ProductThumbnailPath(productID)); err != nil {
		return fmt.Errorf("delete product %d files: %w", productID, err)
	}
	return nil
}
