package responder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaggyashwin/pathfinder/internal/llm"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

type fakeClient struct {
	content string
	err     error
	calls   int
	last    *llm.CompletionRequest
}

func (f *fakeClient) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

func (f *fakeClient) Name() string { return "fake" }

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func TestLLMResponder_ScriptedStagesSkipProvider(t *testing.T) {
	client := &fakeClient{content: "llm reply"}
	r := NewLLMResponder(NewStatic(), client, time.Second, newTestLogger(t))

	assert.Equal(t, AskBackground, r.NextReply(context.Background(), "designer", turns("designer"), nil))
	assert.Equal(t, 0, client.calls)
}

func TestLLMResponder_FollowUp(t *testing.T) {
	client := &fakeClient{content: "  What is your timeline?  "}
	r := NewLLMResponder(NewStatic(), client, time.Second, newTestLogger(t))

	h := turns("designer", AskBackground, "not sure")
	assert.Equal(t, "What is your timeline?", r.NextReply(context.Background(), "not sure", h, nil))
	require.Equal(t, 1, client.calls)
	assert.Equal(t, "user", client.last.Messages[0].Role)
	assert.Len(t, client.last.Messages, 3)
	assert.NotEmpty(t, client.last.System)
}

func TestLLMResponder_FallsBack(t *testing.T) {
	h := turns("designer", AskBackground, "not sure")

	failing := NewLLMResponder(NewStatic(), &fakeClient{err: errors.New("boom")}, time.Second, newTestLogger(t))
	assert.Equal(t, FollowUps[0], failing.NextReply(context.Background(), "not sure", h, NewRoundRobin()))

	empty := NewLLMResponder(NewStatic(), &fakeClient{content: "   "}, time.Second, newTestLogger(t))
	assert.Equal(t, FollowUps[0], empty.NextReply(context.Background(), "not sure", h, NewRoundRobin()))
}

func TestToChatMessages_StartsWithUser(t *testing.T) {
	h := turns("u1", "a1", "u2", "a2", "u3", "a3", "u4", "a4", "u5", "a5", "u6", "a6", "u7", "a7")
	msgs := toChatMessages(h)
	require.NotEmpty(t, msgs)
	assert.Equal(t, "user", msgs[0].Role)
	assert.LessOrEqual(t, len(msgs), maxHistoryTurns)
	assert.Equal(t, "a7", msgs[len(msgs)-1].Content)
}
