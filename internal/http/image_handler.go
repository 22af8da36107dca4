package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/image"
)

const (
	maxUploadMemory       = 32 << 20
	defaultMaxUploadBytes = 64 << 20
)

// parseUpload bounds the request body and parses the multipart form. It
// writes the error response itself and reports whether parsing succeeded.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, h.logger, r, apperror.InvalidInput("invalid multipart form"))
		return false
	}
	return true
}

func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, h.logger, r, apperror.InvalidInput("productId is required"))
		return
	}
	if !h.parseUpload(w, r) {
		return
	}

	headers := r.MultipartForm.File["files"]
	uploads := make([]image.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}
		uploads = append(uploads, up)
	}

	saved, err := h.images.SaveImages(r.Context(), productID, uploads)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Upload success!", saved)
}

func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "imageId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	img, err := h.images.GetImageByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	contentType := img.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", img.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "imageId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if !h.parseUpload(w, r) {
		return
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, h.logger, r, apperror.InvalidInput("file is required"))
		return
	}
	up, err := readUpload(headers[0])
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	if err := h.images.UpdateImage(r.Context(), id, up); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Update success!", nil)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "imageId")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := h.images.DeleteImageByID(r.Context(), id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeOK(w, "Delete success!", nil)
}

func readUpload(fh *multipart.FileHeader) (image.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return image.Upload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return image.Upload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return image.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
