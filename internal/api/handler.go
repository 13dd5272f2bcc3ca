package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"submitmgr/internal/health"
)

// Handler serves the submission manager's health probe endpoints.
type Handler struct {
	health *health.Checker
}

// NewHandler creates a Handler backed by the given health checker.
func NewHandler(healthChecker *health.Checker) *Handler {
	return &Handler{health: healthChecker}
}

// Livez handles GET /livez - liveness probe.
func (h *Handler) Livez(w http.ResponseWriter, r *http.Request) {
	response := h.health.Liveness(r.Context())
	h.writeJSON(w, http.StatusOK, response)
}

// Readyz handles GET /readyz - readiness probe.
// Returns 200 if the manager has completed Initialize and its repository
// (if checkable) is reachable; 503 otherwise.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	response := h.health.Readiness(r.Context())

	status := http.StatusOK
	if !response.IsHealthy() {
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, status, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
