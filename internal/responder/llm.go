package responder

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/llm"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
	"github.com/swaggyashwin/pathfinder/pkg/metrics"
)

const followUpInstructions = `You are PathFinder AI, a friendly career development advisor.
The user is describing a career goal so that you can build them a learning roadmap.
Reply with one or two short sentences asking a single follow-up question about their goal,
timeline or background. Do not write the roadmap yourself. When they are ready, tell them to say "yes".`

// maxHistoryTurns caps how much of the conversation is sent to the provider.
const maxHistoryTurns = 12

// LLMResponder phrases free-form follow-ups with an LLM and falls back to the
// scripted reply when the provider fails. Scripted stages are never sent to
// the provider.
type LLMResponder struct {
	static  *Static
	client  llm.Client
	timeout time.Duration
	logger  *logger.Logger
}

// NewLLMResponder wraps static with an LLM-backed follow-up branch.
func NewLLMResponder(static *Static, client llm.Client, timeout time.Duration, log *logger.Logger) *LLMResponder {
	return &LLMResponder{
		static:  static,
		client:  client,
		timeout: timeout,
		logger:  log,
	}
}

// NextReply implements Responder.
func (r *LLMResponder) NextReply(ctx context.Context, message string, history []model.Turn, sel Selector) string {
	if r.static.Stage(message, history) != StageFollowUp {
		return r.static.NextReply(ctx, message, history, sel)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		System:      followUpInstructions,
		Messages:    toChatMessages(history),
		MaxTokens:   160,
		Temperature: 0.7,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordLLMReply(r.client.Name(), "error", elapsed)
		r.logger.Warn("llm follow-up failed, using scripted reply",
			zap.String("provider", r.client.Name()),
			zap.Error(err),
		)
		return r.static.FollowUp(sel)
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		metrics.RecordLLMReply(r.client.Name(), "empty", elapsed)
		return r.static.FollowUp(sel)
	}

	metrics.RecordLLMReply(r.client.Name(), "success", elapsed)
	return reply
}

// toChatMessages converts the tail of history to provider messages. The
// result starts with a user turn, as providers require.
func toChatMessages(history []model.Turn) []llm.ChatMessage {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for len(history) > 0 && history[0].Role != model.RoleUser {
		history = history[1:]
	}

	out := make([]llm.ChatMessage, len(history))
	for i, t := range history {
		out[i] = llm.ChatMessage{Role: string(t.Role), Content: t.Content}
	}
	return out
}
