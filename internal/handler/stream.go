package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/middleware"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/service"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
	"github.com/swaggyashwin/pathfinder/pkg/metrics"
)

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	service    *service.SessionService
	logger     *logger.Logger
	chunkDelay time.Duration
}

// NewStreamHandler creates a new stream handler. chunkDelay paces token
// events; zero sends them back to back.
func NewStreamHandler(svc *service.SessionService, log *logger.Logger, chunkDelay time.Duration) *StreamHandler {
	return &StreamHandler{
		service:    svc,
		logger:     log,
		chunkDelay: chunkDelay,
	}
}

// DoneEvent closes a turn stream.
type DoneEvent struct {
	Decision      model.Decision `json:"decision"`
	Category      string         `json:"category,omitempty"`
	AssistantTurn model.Turn     `json:"assistant_turn"`
}

// StreamTurn handles POST /api/v1/sessions/:id/stream
// It processes the turn and streams the assistant reply as SSE events:
// user_turn, token..., roadmap (only when one was generated), done.
func (h *StreamHandler) StreamTurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	content, ok := decodeTurn(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	result, err := h.service.SubmitTurn(ctx, tenantID, id, content)
	if err != nil {
		writeServiceError(w, r, h.logger, "submit turn", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	log := requestLogger(r, h.logger).With(zap.String("session_id", id))
	send := func(event string, data interface{}) bool {
		if err := sendSSEEvent(w, flusher, event, data); err != nil {
			log.Warn("failed to send SSE event", zap.String("event", event), zap.Error(err))
			return false
		}
		return true
	}

	if !send("user_turn", result.UserTurn) {
		return
	}

	for i, token := range splitTokens(result.Reply) {
		if i > 0 && h.chunkDelay > 0 {
			timer := time.NewTimer(h.chunkDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info("SSE client disconnected")
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			log.Info("SSE client disconnected")
			return
		}

		if !send("token", &model.TokenEvent{Token: token, Index: i}) {
			return
		}
	}

	if result.Roadmap != nil && !send("roadmap", result.Roadmap) {
		return
	}

	send("done", &DoneEvent{
		Decision:      result.Decision,
		Category:      result.Category,
		AssistantTurn: result.AssistantTurn,
	})
}

// splitTokens splits a reply into word tokens that concatenate back to the
// original text.
func splitTokens(reply string) []string {
	if reply == "" {
		return nil
	}
	return strings.SplitAfter(reply, " ")
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	flusher.Flush()

	return nil
}
