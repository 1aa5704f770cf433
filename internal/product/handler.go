package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/supan/storage-service/internal/files"
	"github.com/supan/storage-service/internal/response"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// Handler holds HTTP handlers for product endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new product Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary		List products
//	@Description	Returns all products, each with a freshly minted secure thumbnail URL.
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Product}
//	@Failure		500	{object}	response.Envelope
//	@Router			/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListWithImageURLs(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, products)
}

// Get godoc
//
//	@Summary		Get product
//	@Description	Returns the product with a freshly minted secure thumbnail URL.
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	response.Envelope{data=Product}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products/{productID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetWithImageURLs(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "product not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// Create godoc
//
//	@Summary		Create product
//	@Description	Creates a product from multipart form data. Accepts an optional thumbnail and any number of gallery images; the product row is saved first so the images are stored under its id.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Product name"
//	@Param			description	formData	string	false	"Product description"
//	@Param			price		formData	number	true	"Product price"
//	@Param			thumbnail	formData	file	false	"Thumbnail image"
//	@Param			gallery		formData	file	false	"Gallery images"
//	@Success		201			{object}	response.Envelope{data=Product}
//	@Failure		400			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		response.BadRequest(w, "name is required")
		return
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		response.BadRequest(w, "invalid price")
		return
	}
	description := r.FormValue("description")

	var thumbnail *files.Upload
	if thumb, file, err := files.UploadFromRequest(r, "thumbnail"); err == nil {
		defer file.Close()
		thumbnail = &thumb
	}

	var gallery []files.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["gallery"] {
			file, err := header.Open()
			if err != nil {
				response.BadRequest(w, "invalid gallery image")
				return
			}
			defer file.Close()

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			gallery = append(gallery, files.Upload{
				Reader:      file,
				Filename:    header.Filename,
				Size:        header.Size,
				ContentType: contentType,
			})
		}
	}

	p, err := h.svc.Create(r.Context(), name, description, price, thumbnail, gallery)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.Created(w, p)
}

// Delete godoc
//
//	@Summary		Delete product
//	@Description	Deletes the product's stored files and then the product record.
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	response.Envelope
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products/{productID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "product not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]bool{"deleted": true})
}

// UploadImage godoc
//
//	@Summary		Upload gallery image
//	@Description	Stores a gallery image under the product keeping its original filename; distinct filenames coexist, identical ones overwrite.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			productID	path		int		true	"Product ID"
//	@Param			file		formData	file	true	"Image file"
//	@Success		200			{object}	response.Envelope{data=files.FileMetadata}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products/{productID}/files/images [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	upload, file, err := files.UploadFromRequest(r, "file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	meta, err := h.svc.StoreImage(r.Context(), id, upload)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.OK(w, meta)
}

// UploadThumbnail godoc
//
//	@Summary		Upload thumbnail
//	@Description	Stores the product thumbnail at its fixed path, replacing any previous one.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			productID	path		int		true	"Product ID"
//	@Param			file		formData	file	true	"Image file"
//	@Success		200			{object}	response.Envelope{data=files.FileMetadata}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products/{productID}/files/thumbnail [post]
func (h *Handler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	upload, file, err := files.UploadFromRequest(r, "file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	meta, err := h.svc.StoreThumbnail(r.Context(), id, upload)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.OK(w, meta)
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case h.svc.IsNotFound(err):
		response.NotFound(w, "product not found")
	case errors.Is(err, files.ErrEmptyFile):
		response.BadRequest(w, "file is empty")
	case errors.Is(err, files.ErrUnsafeFilename):
		response.BadRequest(w, "invalid filename")
	default:
		response.InternalError(w)
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid product id")
		return 0, false
	}
	return id, true
}
