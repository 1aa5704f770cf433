package files

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload carries one inbound file payload from the HTTP layer to the
// storage facades.
type Upload struct {
	Reader      io.Reader
	Filename    string
	Size        int64
	ContentType string
}

// UploadFromRequest extracts the named multipart file part from the request.
// The returned closer must be closed by the caller once the upload is consumed.
func UploadFromRequest(r *http.Request, field string) (Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("read multipart field %q: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return Upload{
		Reader:      file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: contentType,
	}, file, nil
}
