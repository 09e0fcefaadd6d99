package handlers

import (
	"errors"
	"net/http"

	mediasvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/media"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/dto"
	httperrors "github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/errors"
)

const (
	uploadFieldName = "image"
	multipartSlack  = 1 << 20
)

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	limit := h.service.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeTooLarge(w)
			return
		}
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeBadRequest(w, "NO_FILE", "no image file provided")
		return
	}
	defer file.Close()

	upload, err := h.service.UploadImage(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrTooLarge):
			writeTooLarge(w)
		case errors.Is(err, mediasvc.ErrUnsupportedType):
			writeBadRequest(w, "UNSUPPORTED_TYPE", "file is not an image")
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "NO_FILE", "image file is empty")
		default:
			writeInternal(w, "UPLOAD_FAILED", "failed to upload image")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UploadImageResponse{URL: upload.URL})
}

func writeTooLarge(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusRequestEntityTooLarge, httperrors.APIError{
		Code:    "FILE_TOO_LARGE",
		Message: "image exceeds the upload limit",
	})
}
