package api

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// multipart framing on top of the image itself
const uploadOverhead = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *services.ImageUploader
}

func newUploadHandler(uploader *services.ImageUploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// uploadImage stores an image for use in posts and projects
// @Summary Upload an image
// @Tags Admin Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image (jpeg, png, gif, webp or avif; max 5 MiB)"
// @Success 201 {object} services.UploadResult
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /admin/uploads [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+uploadOverhead)

		body, closeBody, err := h.imageBody(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeBody()

		result, err := h.uploader.Upload(r.Context(), body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				err = errs.NewMaxBodySizeExceededError(services.MaxImageSize)
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, result)
	}
}

// imageBody returns the "file" part of a multipart form, or the raw body for
// clients that post the image bytes directly.
func (h uploadHandler) imageBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, nil, errs.NewMaxBodySizeExceededError(services.MaxImageSize)
		case errors.Is(err, http.ErrMissingFile):
			return nil, nil, errs.NewMissingRequiredFieldError("file")
		default:
			return nil, nil, errs.NewMalformedPayloadError("upload", err)
		}
	}
	return file, func() { file.Close() }, nil
}
