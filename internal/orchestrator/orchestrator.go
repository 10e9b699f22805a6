// Package orchestrator ties classification, replies and roadmap synthesis
// together for one conversation turn at a time.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/swaggyashwin/pathfinder/internal/career"
	"github.com/swaggyashwin/pathfinder/internal/intent"
	"github.com/swaggyashwin/pathfinder/internal/llm"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/responder"
	"github.com/swaggyashwin/pathfinder/internal/roadmap"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

// Classifier decides whether a turn should generate a roadmap.
type Classifier interface {
	Classify(message string, prior []model.Turn) model.Decision
}

// Synthesizer builds a roadmap from the triggering text.
type Synthesizer interface {
	Synthesize(trigger string) (model.Roadmap, career.Category)
}

// Orchestrator runs the per-turn control loop. It holds no session state and
// may be shared by any number of sessions.
type Orchestrator struct {
	classifier  Classifier
	responder   responder.Responder
	synthesizer Synthesizer
	newSelector responder.SelectorFactory
	clock       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used to timestamp archived roadmaps.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithSelectors sets the factory that gives each session its own follow-up
// selector.
func WithSelectors(factory responder.SelectorFactory) Option {
	return func(o *Orchestrator) {
		if factory != nil {
			o.newSelector = factory
		}
	}
}

// WithLLM phrases follow-up replies through client when the orchestrator
// uses the scripted responder. A nil client leaves replies scripted.
func WithLLM(client llm.Client, timeout time.Duration, log *logger.Logger) Option {
	return func(o *Orchestrator) {
		static, ok := o.responder.(*responder.Static)
		if !ok || client == nil {
			return
		}
		o.responder = responder.NewLLMResponder(static, client, timeout, log)
	}
}

// New creates an orchestrator.
func New(classifier Classifier, resp responder.Responder, synthesizer Synthesizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier:  classifier,
		responder:   resp,
		synthesizer: synthesizer,
		newSelector: func() responder.Selector { return responder.NewRoundRobin() },
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewDefault wires the default classifier, scripted responder and a
// synthesizer over the embedded templates. Each session gets its follow-up
// selector from selectors.
func NewDefault(selectors responder.SelectorFactory, opts ...Option) (*Orchestrator, error) {
	store, err := roadmap.LoadDefaultStore()
	if err != nil {
		return nil, err
	}
	syn, err := roadmap.NewSynthesizer(career.NewResolver(), store)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithSelectors(selectors)}, opts...)
	return New(intent.NewClassifier(), responder.NewStatic(), syn, opts...), nil
}

// Greeting returns the opening message for a new conversation.
func (o *Orchestrator) Greeting(ctx context.Context) string {
	return o.responder.NextReply(ctx, "", nil, nil)
}

// SubmitTurn appends the user's text to s, decides what to do with it and
// appends the assistant's answer. It always returns a well-formed result.
func (o *Orchestrator) SubmitTurn(ctx context.Context, s *Session, text string) model.TurnResult {
	// Classification sees the history before this turn; the responder sees it
	// after.
	prior := s.history[:len(s.history):len(s.history)]
	userTurn := s.append(model.RoleUser, text)

	decision := o.classifier.Classify(text, prior)
	if decision == model.DecisionGenerate {
		rm, category := o.synthesizer.Synthesize(text)
		current := rm.Clone()
		s.current = &current
		s.archive = append(s.archive, model.ArchivedRoadmap{
			GeneratedAt: o.clock(),
			Category:    string(category),
			Roadmap:     rm.Clone(),
		})
		s.state = model.StateRoadmapReady

		reply := Acknowledgement(rm.CareerGoal)
		assistantTurn := s.append(model.RoleAssistant, reply)
		return model.TurnResult{
			Decision:      model.DecisionGenerate,
			Reply:         reply,
			Roadmap:       &rm,
			Category:      string(category),
			UserTurn:      userTurn,
			AssistantTurn: assistantTurn,
		}
	}

	if s.followUps == nil {
		s.followUps = o.newSelector()
	}
	reply := o.responder.NextReply(ctx, text, s.history, s.followUps)
	assistantTurn := s.append(model.RoleAssistant, reply)

	if s.state == model.StateRoadmapReady {
		decision = model.DecisionContinue
	}
	return model.TurnResult{
		Decision:      decision,
		Reply:         reply,
		UserTurn:      userTurn,
		AssistantTurn: assistantTurn,
	}
}

// Reset clears the active conversation and current roadmap. The roadmap
// archive is kept.
func (o *Orchestrator) Reset(s *Session) {
	s.history = nil
	s.current = nil
	s.state = model.StateAwaitingInput
	s.nextSeq = 1
	s.followUps = nil
}

// Export returns an independent copy of the current roadmap, or nil.
func (o *Orchestrator) Export(s *Session) *model.Roadmap {
	if s.current == nil {
		return nil
	}
	rm := s.current.Clone()
	return &rm
}

// Acknowledgement is the assistant reply sent when a roadmap is generated.
func Acknowledgement(goal string) string {
	return fmt.Sprintf("Created your roadmap for %s! Check the roadmap panel to see your personalized plan.", goal)
}
