package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"submitmgr/internal/health"
)

func TestLivezReturnsHealthy(t *testing.T) {
	t.Parallel()
	h := NewHandler(health.NewChecker(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	rec := httptest.NewRecorder()
	h.Livez(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReadyzReturnsServiceUnavailableWithoutManager(t *testing.T) {
	t.Parallel()
	h := NewHandler(health.NewChecker(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestNewRouterServesLivez(t *testing.T) {
	t.Parallel()
	router := NewRouter(RouterConfig{HealthChecker: health.NewChecker(nil, nil)})

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
