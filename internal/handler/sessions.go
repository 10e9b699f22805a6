// Package handler provides HTTP handlers for the API.
package handler

import (
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/middleware"
	"github.com/swaggyashwin/pathfinder/internal/render"
	"github.com/swaggyashwin/pathfinder/internal/service"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

// SessionHandler handles session endpoints.
type SessionHandler struct {
	service *service.SessionService
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(svc *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: svc,
		logger:  log,
	}
}

// Categories handles GET /api/v1/categories
func (h *SessionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.service.Categories(),
	})
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.Create(ctx, middleware.GetTenantID(ctx), middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, "create session", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 20, 1, 100)
	offset := queryInt(r, "offset", 0, 0, math.MaxInt)

	resp, err := h.service.List(ctx, middleware.GetTenantID(ctx), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, "list sessions", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.service.Get(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, "get session", err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetTenantID(r.Context()), id); err != nil {
		writeServiceError(w, r, h.logger, "delete session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitTurn handles POST /api/v1/sessions/:id/turns
func (h *SessionHandler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	content, ok := decodeTurn(w, r)
	if !ok {
		return
	}

	result, err := h.service.SubmitTurn(r.Context(), middleware.GetTenantID(r.Context()), id, content)
	if err != nil {
		writeServiceError(w, r, h.logger, "submit turn", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Reset handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	meta, err := h.service.Reset(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, "reset session", err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// Export handles GET /api/v1/sessions/:id/roadmap
// Supports ?format=json|yaml|markdown; responds 204 when no roadmap exists.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rm, err := h.service.Export(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, "export roadmap", err)
		return
	}
	if rm == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := render.Encode(w, rm, format); err != nil {
		requestLogger(r, h.logger).Warn("failed to write roadmap export", zap.Error(err))
	}
}

// Archive handles GET /api/v1/sessions/:id/archive
func (h *SessionHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Archive(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, "list roadmap archive", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Journal handles GET /api/v1/sessions/:id/journal
// Supports ?after_sequence=N&limit=M for paging through journaled turns.
func (h *SessionHandler) Journal(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var afterSequence uint64
	if seqStr := r.URL.Query().Get("after_sequence"); seqStr != "" {
		seq, err := strconv.ParseUint(seqStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid after_sequence")
			return
		}
		afterSequence = seq
	}
	limit := queryInt(r, "limit", 50, 1, 100)

	resp, err := h.service.Journal(r.Context(), middleware.GetTenantID(r.Context()), id, afterSequence, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, "read journal", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
