package http

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes bounds report photo uploads.
const maxUploadBytes = 10 << 20

// UploadHandler stores report photos on disk and returns the URL they
// are served from.
type UploadHandler struct {
	// Dir is the directory uploaded files are written to.
	Dir string
	// Log records upload failures.
	Log *zap.Logger
}

// UploadImage handles POST /api/upload/image. It expects a multipart
// form with the photo under the "file" field and responds with the
// served URL in the data payload.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		h.Log.Error("failed to create upload dir", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.Dir, name))
	if err != nil {
		h.Log.Error("failed to create upload file", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.Log.Error("failed to write upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeData(w, http.StatusCreated, map[string]string{"url": "/uploads/" + name})
}
