package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	dir := t.TempDir()
	h := &UploadHandler{Dir: dir, Log: zap.NewNop()}

	body, contentType := multipartBody(t, "file", "photo.jpg", "jpg bytes")
	req := httptest.NewRequest("POST", "/api/upload/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadImage(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if !strings.HasPrefix(env.Data.URL, "/uploads/") || !strings.HasSuffix(env.Data.URL, ".jpg") {
		t.Errorf("url = %q", env.Data.URL)
	}

	name := strings.TrimPrefix(env.Data.URL, "/uploads/")
	saved, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("uploaded file not written: %v", err)
	}
	if string(saved) != "jpg bytes" {
		t.Errorf("saved content = %q", saved)
	}
}

func TestUploadImage_MissingFileField(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir(), Log: zap.NewNop()}

	body, contentType := multipartBody(t, "wrong", "photo.jpg", "jpg bytes")
	req := httptest.NewRequest("POST", "/api/upload/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func TestUploadImage_NotMultipart(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir(), Log: zap.NewNop()}

	req := httptest.NewRequest("POST", "/api/upload/image", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.UploadImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}
