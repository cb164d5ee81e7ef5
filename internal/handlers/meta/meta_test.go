package meta_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/creators-of-happiness/selfhost-backend/internal/handlers/meta"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	meta.Register(r)
	return r
}

func TestRootInfo(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if body["service"] != meta.Service {
		t.Errorf("expected service=%s, got %v", meta.Service, body["service"])
	}
	if body["version"] != meta.Version {
		t.Errorf("expected version=%s, got %v", meta.Version, body["version"])
	}
	eps, ok := body["endpoints"].([]any)
	if !ok || len(eps) == 0 {
		t.Errorf("expected non-empty endpoints list, got %v", body["endpoints"])
	}
}

func TestNotFoundFallback(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if body["error"] != "Not Found" {
		t.Errorf("expected error=Not Found, got %v", body["error"])
	}
}
