// Package api exposes the submission manager's only HTTP surface: health
// probes and a metrics scrape endpoint (spec §6, "No direct CLI or wire
// protocol" — submit/stop/status stay Go method calls, not HTTP routes).
package api

import (
	"net/http"

	"submitmgr/internal/health"
	"submitmgr/internal/observability"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Metrics        *observability.Metrics
	MetricsHandler http.Handler
	HealthChecker  *health.Checker
}

// NewRouter creates a new HTTP router serving liveness, readiness, and
// metrics endpoints only.
func NewRouter(cfg RouterConfig) http.Handler {
	handler := NewHandler(cfg.HealthChecker)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", handler.Livez)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	var h http.Handler = mux
	if cfg.Metrics != nil {
		h = MetricsMiddleware(cfg.Metrics)(h)
	}
	h = LoggingMiddleware()(h)
	h = RecoveryMiddleware()(h)

	return h
}
