package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/middleware"
	"github.com/swaggyashwin/pathfinder/internal/service"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// requestLogger scopes log to the request's correlation id and caller.
func requestLogger(r *http.Request, log *logger.Logger) *logger.Logger {
	ctx := r.Context()
	return log.WithContext(middleware.GetCorrelationID(ctx), middleware.GetTenantID(ctx), middleware.GetUserID(ctx))
}

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrJournalUnavailable):
		writeError(w, http.StatusServiceUnavailable, "journal unavailable")
	default:
		requestLogger(r, log).Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

// sessionID returns the validated {id} URL parameter, writing a 400 when it
// is malformed.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// decodeTurn reads and validates a turn request body.
func decodeTurn(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if err := middleware.ValidateTurnContent(*req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return *req.Content, true
}

// queryInt parses an integer query parameter, returning def when absent or
// outside [lo, hi].
func queryInt(r *http.Request, key string, def, lo, hi int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= lo && parsed <= hi {
			return parsed
		}
	}
	return def
}
