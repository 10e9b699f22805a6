package handler

import (
	"net/http"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	journal ReadinessChecker
}

// NewHealthHandler creates a new health handler. journal is nil when the
// journal is disabled, in which case readiness does not depend on it.
func NewHealthHandler(journal ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		journal: journal,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.journal != nil && !h.journal.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
