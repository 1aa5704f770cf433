package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/supan/storage-service/internal/files"
	"github.com/supan/storage-service/internal/response"
)

// Handler holds HTTP handlers for user endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new user Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createUserRequest struct {
	Username string `json:"username" example:"supan"`
	Email    string `json:"email"    example:"supan@example.com"`
}

// Create godoc
//
//	@Summary		Create user
//	@Description	Register a new user account.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createUserRequest	true	"User details"
//	@Success		201		{object}	response.Envelope{data=User}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" {
		response.BadRequest(w, "username is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		response.BadRequest(w, "invalid email address")
		return
	}

	u, err := h.svc.Create(r.Context(), req.Username, req.Email)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, u)
}

// Get godoc
//
//	@Summary		Get user
//	@Description	Returns the user with freshly minted secure image URLs. NID URLs appear only after the documents were uploaded.
//	@Tags			users
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{object}	response.Envelope{data=User}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	u, err := h.svc.GetWithImageURLs(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, u)
}

// Delete godoc
//
//	@Summary		Delete user
//	@Description	Deletes the user's stored files (profile picture, NID images) and then the user record.
//	@Tags			users
//	@Produce		json
//	@Param			userID	path		int	true	"User ID"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]bool{"deleted": true})
}

// UploadProfilePicture godoc
//
//	@Summary		Upload profile picture
//	@Description	Stores the user's profile picture at its fixed path, replacing any previous one.
//	@Tags			users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID	path		int		true	"User ID"
//	@Param			file	formData	file	true	"Image file"
//	@Success		200		{object}	response.Envelope{data=files.FileMetadata}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID}/files/profile-picture [post]
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	upload, file, err := files.UploadFromRequest(r, "file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	meta, err := h.svc.StoreProfilePicture(r.Context(), id, upload)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.OK(w, meta)
}

// UploadNid godoc
//
//	@Summary		Upload NID images
//	@Description	Stores both NID images and moves the account into review.
//	@Tags			users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID	path		int		true	"User ID"
//	@Param			front	formData	file	true	"NID front image"
//	@Param			back	formData	file	true	"NID back image"
//	@Success		200		{object}	response.Envelope{data=User}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID}/files/nid [post]
func (h *Handler) UploadNid(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	front, frontFile, err := files.UploadFromRequest(r, "front")
	if err != nil {
		response.BadRequest(w, "front image is required")
		return
	}
	defer frontFile.Close()

	back, backFile, err := files.UploadFromRequest(r, "back")
	if err != nil {
		response.BadRequest(w, "back image is required")
		return
	}
	defer backFile.Close()

	u, err := h.svc.UploadNidImages(r.Context(), id, front, back)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.OK(w, u)
}

// UploadNidFront godoc
//
//	@Summary		Upload NID front image
//	@Description	Stores only the front NID image at its fixed path. Verification status is updated by the combined NID upload.
//	@Tags			users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID	path		int		true	"User ID"
//	@Param			file	formData	file	true	"NID front image"
//	@Success		200		{object}	response.Envelope{data=files.FileMetadata}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID}/files/nid/front [post]
func (h *Handler) UploadNidFront(w http.ResponseWriter, r *http.Request) {
	h.uploadNidSide(w, r, h.svc.StoreNidFront)
}

// UploadNidBack godoc
//
//	@Summary		Upload NID back image
//	@Description	Stores only the back NID image at its fixed path. Verification status is updated by the combined NID upload.
//	@Tags			users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID	path		int		true	"User ID"
//	@Param			file	formData	file	true	"NID back image"
//	@Success		200		{object}	response.Envelope{data=files.FileMetadata}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/users/{userID}/files/nid/back [post]
func (h *Handler) UploadNidBack(w http.ResponseWriter, r *http.Request) {
	h.uploadNidSide(w, r, h.svc.StoreNidBack)
}

func (h *Handler) uploadNidSide(w http.ResponseWriter, r *http.Request, store func(context.Context, int64, files.Upload) (*files.FileMetadata, error)) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	upload, file, err := files.UploadFromRequest(r, "file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	meta, err := store(r.Context(), id, upload)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.OK(w, meta)
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case h.svc.IsNotFound(err):
		response.NotFound(w, "user not found")
	case errors.Is(err, files.ErrEmptyFile):
		response.BadRequest(w, "file is empty")
	case errors.Is(err, files.ErrUnsafeFilename):
		response.BadRequest(w, "invalid filename")
	default:
		response.InternalError(w)
	}
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}
