package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/storage"
)

// maxCoverSize caps cover image uploads at 10 MB.
const maxCoverSize = 10 << 20

// allowedCoverTypes lists the image content types accepted for covers.
var allowedCoverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// Media serves cover image uploads for the post editor.
type Media struct {
	storage *storage.Client // nil when object storage is not configured
}

// NewMedia creates the media handler group. storage may be nil.
func NewMedia(storage *storage.Client) *Media {
	return &Media{storage: storage}
}

// uploadResponse returns the public URL of the stored cover image. The
// editor puts this URL on the post's cover_image_url field.
type uploadResponse struct {
	URL string `json:"url"`
}

// UploadCover handles POST /api/admin/media. Expects a multipart form
// with the image in the "file" field.
func (m *Media) UploadCover(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		respondError(w, http.StatusBadRequest, "Upload too large or malformed (max 10 MB).")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file field.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedCoverTypes[strings.ToLower(contentType)] {
		respondError(w, http.StatusBadRequest, "Unsupported image type.")
		return
	}

	url, err := m.storage.UploadCover(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		slog.Error("cover upload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
