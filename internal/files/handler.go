package files

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/supan/storage-service/internal/middleware"
	"github.com/supan/storage-service/internal/response"
)

// Handler serves token-gated file downloads.
type Handler struct {
	svc *Service
}

// NewHandler creates a new files Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Serve godoc
//
//	@Summary		Download a file
//	@Description	Streams the file bound to the capability token. The path segments after /api/files are informational; access is resolved solely from the token.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			token	query		string	true	"Capability token"
//	@Success		200		{file}		binary
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/files/{route} [get]
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	path, ok := r.Context().Value(middleware.FilePathKey).(string)
	if !ok || path == "" {
		response.Unauthorized(w, "access denied")
		return
	}

	// Any failure past token verification is a 404: whether the object is
	// missing or the backend misbehaved is not revealed to the caller. The
	// true cause still goes to the log for diagnosis.
	meta, err := h.svc.Metadata(r.Context(), path)
	if err != nil {
		log.Printf("files: serving %q failed on stat: %v", path, err)
		response.NotFound(w, "file not found")
		return
	}

	stream, err := h.svc.Open(r.Context(), path)
	if err != nil {
		log.Printf("files: serving %q failed on open: %v", path, err)
		response.NotFound(w, "file not found")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Filename))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", meta.Size))

	if _, err := io.Copy(w, stream); err != nil {
		// Headers are already out; nothing to send the client but the cause
		// is still worth logging.
		log.Printf("files: streaming %q aborted: %v", path, err)
	}
}
