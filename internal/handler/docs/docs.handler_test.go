package docs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"uploadkit-go/internal/pkg/middleware"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

func TestOpenAPIEndpointServesDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)

	doc, err := NewDocument("uploadkit", "test")
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	r := gin.New()
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit())
	NewHandler(doc).NewRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/docs/openapi.json", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}

	parsed, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("parse served document: %v", err)
	}

	for _, path := range []string{"/media/upload", "/media", "/media/cursor", "/media/download", "/media/{id}"} {
		if parsed.Paths.Value(path) == nil {
			t.Fatalf("path %s missing from the document", path)
		}
	}

	upload := parsed.Paths.Value("/media/upload").Post
	if upload == nil {
		t.Fatalf("upload operation missing")
	}
	form := upload.RequestBody.Value.Content.Get("multipart/form-data")
	if form == nil {
		t.Fatalf("upload operation has no multipart body")
	}
	for _, prop := range []string{"file", "attachments", "folder", "directory", "media", "silent"} {
		if _, ok := form.Schema.Value.Properties[prop]; !ok {
			t.Fatalf("multipart property %s missing", prop)
		}
	}

	for _, name := range []string{"ResultDownload", "Media", "MediaPage", "MediaCursorPage"} {
		if _, ok := parsed.Components.Schemas[name]; !ok {
			t.Fatalf("component schema %s missing", name)
		}
	}
}
