package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/blob"
)

// maxUploadBytes caps image uploads at 2MB.
const maxUploadBytes = 2 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadHandler delegates image uploads to the blob store. Blob may be
// nil when storage is not configured; uploads then fail with 500.
type UploadHandler struct {
	Blob *blob.Client
}

func NewUploadHandler(b *blob.Client) *UploadHandler {
	return &UploadHandler{Blob: b}
}

// Upload handles POST /api/upload/. The file arrives as the "file"
// multipart field; size and extension are validated before anything is
// sent to the blob store.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file provided"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File exceeds 2MB limit"})
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); !allowedExtensions[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid file type"})
	}
	if h.Blob == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed: storage not configured"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed: " + err.Error()})
	}
	defer func() { _ = f.Close() }()

	url, err := h.Blob.UploadImage(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed: " + err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"file_url": url})
}
