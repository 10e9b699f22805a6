package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaggyashwin/pathfinder/internal/llm"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/responder"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var roundRobin = responder.NewSelectorFactory(responder.SelectorRoundRobin, 0)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := NewDefault(roundRobin, WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	return o
}

func TestSubmitTurn_GeneratesOnFirstTurn(t *testing.T) {
	o := newTestOrchestrator(t)
	s := NewSession()

	res := o.SubmitTurn(context.Background(), s, "Help me transition to UX Design from marketing, I know HTML basics")

	require.Equal(t, model.DecisionGenerate, res.Decision)
	require.NotNil(t, res.Roadmap)
	assert.Contains(t, res.Roadmap.CareerGoal, "UX Designer")
	assert.Equal(t, "ux_designer", res.Category)
	assert.Contains(t, res.Reply, "UX Designer")

	assert.Equal(t, model.StateRoadmapReady, s.State())
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "Help me transition to UX Design from marketing, I know HTML basics", Sequence: 1}, history[0])
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, uint64(2), history[1].Sequence)

	archive := s.Archive()
	require.Len(t, archive, 1)
	assert.Equal(t, fixedTime, archive[0].GeneratedAt)
	assert.Equal(t, "UX Designer", archive[0].Roadmap.CareerGoal)
}

func TestSubmitTurn_EmptyInputAsksMore(t *testing.T) {
	o := newTestOrchestrator(t)
	s := NewSession()

	res := o.SubmitTurn(context.Background(), s, "")
	assert.Equal(t, model.DecisionAskMore, res.Decision)
	assert.Nil(t, res.Roadmap)
	assert.Equal(t, responder.AskBackground, res.Reply)
	assert.Equal(t, model.StateAwaitingInput, s.State())
	assert.Equal(t, 2, s.Len())
}

func TestSubmitTurn_TriggerUsesPriorTurnsOnly(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	// The trigger and the career signal arrive in the same short message: the
	// message is not part of its own prior context, so nothing is generated.
	s := NewSession()
	res := o.SubmitTurn(ctx, s, "yes, become a designer")
	assert.Equal(t, model.DecisionAskMore, res.Decision)

	// The next trigger sees that message as prior context.
	res = o.SubmitTurn(ctx, s, "yes")
	assert.Equal(t, model.DecisionGenerate, res.Decision)
	require.NotNil(t, res.Roadmap)
	// Synthesis resolves from the triggering text only, which falls back.
	assert.Equal(t, "Data Scientist", res.Roadmap.CareerGoal)
}

func TestSubmitTurn_ConversationFlow(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	s := NewSession()

	res := o.SubmitTurn(ctx, s, "cloud stuff")
	assert.Equal(t, model.DecisionAskMore, res.Decision)
	assert.Equal(t, responder.AskBackground, res.Reply)

	res = o.SubmitTurn(ctx, s, "I know Linux")
	assert.Equal(t, model.DecisionAskMore, res.Decision)
	assert.Equal(t, responder.OfferRoadmap, res.Reply)

	// No career keyword yet anywhere, so a trigger cannot generate.
	res = o.SubmitTurn(ctx, s, "yes")
	assert.Equal(t, model.DecisionAskMore, res.Decision)
	assert.Equal(t, responder.FollowUps[0], res.Reply)

	res = o.SubmitTurn(ctx, s, "cloud career please")
	assert.Equal(t, model.DecisionAskMore, res.Decision, "three words are not enough context")

	res = o.SubmitTurn(ctx, s, "ready")
	require.Equal(t, model.DecisionGenerate, res.Decision)
	assert.Equal(t, "Data Scientist", res.Roadmap.CareerGoal)

	res = o.SubmitTurn(ctx, s, "thanks")
	assert.Equal(t, model.DecisionContinue, res.Decision)
	assert.Nil(t, res.Roadmap)
	assert.True(t, s.HasRoadmap(), "a non-generating turn keeps the current roadmap")
	assert.Equal(t, model.StateRoadmapReady, s.State())
}

func TestSubmitTurn_RegenerationReplacesAndArchives(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	s := NewSession()

	o.SubmitTurn(ctx, s, "I want to become a cloud architect at a big company")
	first := o.Export(s)
	require.NotNil(t, first)
	assert.Equal(t, "Cloud Architect", first.CareerGoal)

	o.SubmitTurn(ctx, s, "Actually I want to switch to cybersecurity analyst work")
	second := o.Export(s)
	require.NotNil(t, second)
	assert.Equal(t, "Cybersecurity Analyst", second.CareerGoal)

	archive := s.Archive()
	require.Len(t, archive, 2)
	assert.Equal(t, "Cloud Architect", archive[0].Roadmap.CareerGoal)
	assert.Equal(t, "cybersecurity_analyst", archive[1].Category)
}

func TestReset_BehavesLikeNewSession(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	s := NewSession()
	o.SubmitTurn(ctx, s, "I want to become a product manager someday")
	require.True(t, s.HasRoadmap())

	o.Reset(s)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.HasRoadmap())
	assert.Nil(t, o.Export(s))
	assert.Equal(t, model.StateAwaitingInput, s.State())
	assert.Equal(t, 1, s.ArchiveLen(), "archive survives reset")

	fresh := NewSession()
	for _, text := range []string{"yes", "hmm", "hmm"} {
		got := o.SubmitTurn(ctx, s, text)
		want := o.SubmitTurn(ctx, fresh, text)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, fresh.History(), s.History())
}

func TestExport_IndependentCopy(t *testing.T) {
	o := newTestOrchestrator(t)
	s := NewSession()

	res := o.SubmitTurn(context.Background(), s, "Guide me to become a Cloud Architect with AWS")
	require.NotNil(t, res.Roadmap)

	res.Roadmap.Phases[0].Title = "mutated"
	exported := o.Export(s)
	require.NotNil(t, exported)
	assert.NotEqual(t, "mutated", exported.Phases[0].Title)

	exported.Phases[0].Milestones[0] = "mutated"
	again := o.Export(s)
	assert.NotEqual(t, "mutated", again.Phases[0].Milestones[0])
	assert.NotEqual(t, "mutated", s.Archive()[0].Roadmap.Phases[0].Milestones[0])
}

func TestSessions_AreIndependent(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	a, b := NewSession(), NewSession()

	o.SubmitTurn(ctx, a, "I want to become a writer")
	res := o.SubmitTurn(ctx, b, "yes")
	assert.Equal(t, model.DecisionAskMore, res.Decision)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, uint64(1), b.History()[0].Sequence)
}

func TestFollowUps_ArePerSession(t *testing.T) {
	ctx := context.Background()
	script := []string{"hi", "hmm"}

	baseline := newTestOrchestrator(t)
	var want model.TurnResult
	lone := NewSession()
	for _, text := range script {
		want = baseline.SubmitTurn(ctx, lone, text)
	}
	require.Equal(t, responder.FollowUps[0], want.Reply)

	o := newTestOrchestrator(t)
	a, b := NewSession(), NewSession()
	for _, text := range script {
		o.SubmitTurn(ctx, a, text)
	}
	assert.Equal(t, responder.FollowUps[1], o.SubmitTurn(ctx, a, "hmm").Reply)

	var got model.TurnResult
	for _, text := range script {
		got = o.SubmitTurn(ctx, b, text)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, responder.FollowUps[2], o.SubmitTurn(ctx, a, "hmm").Reply)
}

func TestReset_RestartsFollowUps(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	s := NewSession()

	for _, text := range []string{"hi", "hmm", "hmm"} {
		o.SubmitTurn(ctx, s, text)
	}
	o.Reset(s)
	o.SubmitTurn(ctx, s, "hi")
	assert.Equal(t, responder.FollowUps[0], o.SubmitTurn(ctx, s, "hmm").Reply)
}

func TestGreeting(t *testing.T) {
	o := newTestOrchestrator(t)
	assert.Equal(t, responder.Greeting, o.Greeting(context.Background()))
}

type stubClassifier struct{ prior [][]model.Turn }

func (c *stubClassifier) Classify(_ string, prior []model.Turn) model.Decision {
	c.prior = append(c.prior, prior)
	return model.DecisionAskMore
}

type recordingResponder struct{ histories [][]model.Turn }

func (r *recordingResponder) NextReply(_ context.Context, _ string, history []model.Turn, _ responder.Selector) string {
	r.histories = append(r.histories, append([]model.Turn(nil), history...))
	return "ok"
}

func TestSubmitTurn_HistoryVisibility(t *testing.T) {
	cls := &stubClassifier{}
	resp := &recordingResponder{}
	o := New(cls, resp, nil)
	s := NewSession()

	o.SubmitTurn(context.Background(), s, "first")
	o.SubmitTurn(context.Background(), s, "second")

	require.Len(t, cls.prior, 2)
	assert.Len(t, cls.prior[0], 0)
	assert.Len(t, cls.prior[1], 2)

	require.Len(t, resp.histories, 2)
	assert.Len(t, resp.histories[0], 1)
	assert.Equal(t, "first", resp.histories[0][0].Content)
	assert.Len(t, resp.histories[1], 3)
}

type cannedClient struct{ calls int }

func (c *cannedClient) Complete(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.calls++
	return &llm.CompletionResponse{Content: "What timeline are you working with?"}, nil
}

func (c *cannedClient) Name() string { return "canned" }

func TestWithLLM_PhrasesFollowUps(t *testing.T) {
	client := &cannedClient{}
	o, err := NewDefault(roundRobin, WithLLM(client, time.Second, logger.NewNop()))
	require.NoError(t, err)
	s := NewSession()
	ctx := context.Background()

	assert.Equal(t, responder.Greeting, o.Greeting(ctx))
	assert.Equal(t, responder.AskBackground, o.SubmitTurn(ctx, s, "hi").Reply)
	assert.Zero(t, client.calls)

	res := o.SubmitTurn(ctx, s, "not sure yet")
	assert.Equal(t, "What timeline are you working with?", res.Reply)
	assert.Equal(t, 1, client.calls)
}

func TestWithLLM_NilClientKeepsScriptedReplies(t *testing.T) {
	o, err := NewDefault(roundRobin, WithLLM(nil, time.Second, logger.NewNop()))
	require.NoError(t, err)
	s := NewSession()
	ctx := context.Background()

	o.SubmitTurn(ctx, s, "hi")
	assert.Equal(t, responder.FollowUps[0], o.SubmitTurn(ctx, s, "not sure yet").Reply)
}
