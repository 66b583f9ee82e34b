package middleware

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"uploadkit-go/internal/pkg/upload"

	"github.com/gin-gonic/gin"
)

func newUploadRouter(fields *upload.Fields, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestInit())
	r.Use(ResponseInit())
	r.POST("/upload", MultipartFormMiddleware(fields), handler)
	return r
}

func addFilePart(t *testing.T, w *multipart.Writer, field, filename, mimeType, content string) {
	t.Helper()

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
}

func TestMultipartFormMiddlewarePassesValidatedFiles(t *testing.T) {
	fields := upload.MustCompile([]upload.FieldSpec{
		{Name: "file", Required: true, MaxSize: "1KB", MimeTypes: []string{"text/plain"}},
		{Name: "attachments", IsArray: true, MaxFiles: 2},
	})

	var got upload.Files
	r := newUploadRouter(fields, func(c *gin.Context) {
		got = c.MustGet("files").(upload.Files)
		c.Status(http.StatusOK)
	})

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	addFilePart(t, w, "file", "notes.txt", "text/plain", "hello")
	addFilePart(t, w, "attachments", "a.bin", "application/octet-stream", "aa")
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	file, ok := got.File("file")
	if !ok {
		t.Fatalf("file missing from context")
	}
	if string(file.Buffer) != "hello" {
		t.Fatalf("buffer = %q, want the part content", file.Buffer)
	}
	if file.Size != int64(len("hello")) {
		t.Fatalf("size = %d, want %d", file.Size, len("hello"))
	}
	if file.MimeType != "text/plain" {
		t.Fatalf("mime type = %q", file.MimeType)
	}
	if file.MediaType != "file" {
		t.Fatalf("media type = %q, want the field name", file.MediaType)
	}
	if file.OriginalName != "notes.txt" {
		t.Fatalf("original name = %q", file.OriginalName)
	}
	if len(got.List("attachments")) != 1 {
		t.Fatalf("attachments = %d, want 1", len(got.List("attachments")))
	}
}

func TestMultipartFormMiddlewareRejectsViolationsWith400(t *testing.T) {
	fields := upload.MustCompile([]upload.FieldSpec{{Name: "file", Required: true}})

	handlerRan := false
	r := newUploadRouter(fields, func(c *gin.Context) { handlerRan = true })

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if handlerRan {
		t.Fatalf("handler ran after a validation failure")
	}
	if !strings.Contains(rec.Body.String(), "no files uploaded") {
		t.Fatalf("body %q does not carry the violation", rec.Body.String())
	}
}

func TestMultipartFormMiddlewareReportsFileDetails(t *testing.T) {
	fields := upload.MustCompile([]upload.FieldSpec{{Name: "file", Required: true, MaxSize: "4B"}})

	r := newUploadRouter(fields, func(c *gin.Context) { c.Status(http.StatusOK) })

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	addFilePart(t, w, "file", "notes.txt", "text/plain", "hello!")
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	for _, want := range []string{"file too large", "notes.txt", "maximum is 4B"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("body %q missing %q", rec.Body.String(), want)
		}
	}
}

func TestMultipartFormMiddlewareFailsFormParseWith500(t *testing.T) {
	fields := upload.MustCompile([]upload.FieldSpec{{Name: "file"}})

	r := newUploadRouter(fields, func(c *gin.Context) {
		t.Errorf("handler must not run on a parse failure")
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed retrieving files") {
		t.Fatalf("body %q missing the parse failure message", rec.Body.String())
	}
}
