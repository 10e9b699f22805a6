// Package responder produces the assistant's reply when no roadmap is
// generated for a turn.
package responder

import (
	"context"
	"strings"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

// Responder produces the next assistant utterance. history includes the user
// turn being answered. sel is the conversation's own follow-up selector; a
// nil sel always picks the first follow-up.
type Responder interface {
	NextReply(ctx context.Context, message string, history []model.Turn, sel Selector) string
}

// Stage identifies which branch of the conversation script applies.
type Stage int

const (
	StageGreeting Stage = iota
	StageAskBackground
	StageOfferRoadmap
	StageFollowUp
)

func (s Stage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageAskBackground:
		return "ask_background"
	case StageOfferRoadmap:
		return "offer_roadmap"
	default:
		return "follow_up"
	}
}

// Fixed replies.
const (
	Greeting = "Hello! I'm PathFinder AI, your career development advisor. I'd love to help you create a " +
		"personalized roadmap to achieve your career goals. What role are you interested in pursuing?"
	AskBackground = "That sounds like an exciting career goal! To create the best roadmap for you, could you tell " +
		"me about your current background? What skills or experience do you already have?"
	OfferRoadmap = "Perfect! Based on what you've shared, I have enough information to create a comprehensive " +
		"roadmap for you. I'll generate a detailed plan with learning phases, resources, projects, and milestones. " +
		"Would you like me to create your personalized career development plan now? Just say 'yes' or 'create my roadmap'!"
)

// FollowUps is the pool used once the scripted stages are exhausted.
var FollowUps = []string{
	"That's great! I can definitely help you with that. What's your target timeline for this career transition?",
	"Excellent background! That will definitely help you in your journey. Are you looking for a full-time transition or learning part-time while working?",
	"I understand. Let me know when you're ready and I'll generate your complete roadmap with all the details you need!",
}

// SkillSignals are words that indicate the user described their background.
var SkillSignals = []string{"know", "experience", "familiar", "python", "html", "css", "marketing"}

// maxOfferTurns is the largest history length at which the roadmap offer is made.
const maxOfferTurns = 3

// Static is the scripted responder. It keeps no per-conversation state and
// may be shared.
type Static struct{}

// NewStatic creates a scripted responder.
func NewStatic() *Static {
	return &Static{}
}

// Stage returns the branch that applies to message given history.
func (s *Static) Stage(message string, history []model.Turn) Stage {
	turns := len(history)
	skills := hasSkillSignal(message)

	switch {
	case turns == 0:
		return StageGreeting
	case turns == 1 && !skills:
		return StageAskBackground
	case skills && turns <= maxOfferTurns:
		return StageOfferRoadmap
	default:
		return StageFollowUp
	}
}

// NextReply implements Responder.
func (s *Static) NextReply(_ context.Context, message string, history []model.Turn, sel Selector) string {
	switch s.Stage(message, history) {
	case StageGreeting:
		return Greeting
	case StageAskBackground:
		return AskBackground
	case StageOfferRoadmap:
		return OfferRoadmap
	default:
		return s.FollowUp(sel)
	}
}

// FollowUp returns the reply sel picks from the follow-up pool.
func (s *Static) FollowUp(sel Selector) string {
	if sel == nil {
		return FollowUps[0]
	}
	i := sel.Select(len(FollowUps))
	if i < 0 || i >= len(FollowUps) {
		i = 0
	}
	return FollowUps[i]
}

func hasSkillSignal(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range SkillSignals {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
