// Package model defines data structures for the career roadmap service.
package model

import (
	"time"
)

// Role represents the role of a turn's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are immutable once appended.
type Turn struct {
	Role     Role   `json:"role" yaml:"role"`
	Content  string `json:"content" yaml:"content"`
	Sequence uint64 `json:"sequence" yaml:"sequence"`
}

// Decision is the outcome of evaluating a user turn.
type Decision string

const (
	DecisionAskMore  Decision = "ask_more"
	DecisionGenerate Decision = "generate"
	// DecisionContinue marks a non-generating turn taken after a roadmap is ready.
	DecisionContinue Decision = "continue"
)

// SessionState is the orchestrator state of a session.
type SessionState string

const (
	StateAwaitingInput SessionState = "awaiting_input"
	StateRoadmapReady  SessionState = "roadmap_ready"
)

// ArchivedRoadmap is an entry in a session's append-only roadmap history.
type ArchivedRoadmap struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Category    string    `json:"category" yaml:"category"`
	Roadmap     Roadmap   `json:"roadmap" yaml:"roadmap"`
}

// UserTurns returns the content of every user turn joined by single spaces.
func UserTurns(history []Turn) string {
	var n int
	for _, t := range history {
		if t.Role == RoleUser {
			n += len(t.Content) + 1
		}
	}

	buf := make([]byte, 0, n)
	for _, t := range history {
		if t.Role != RoleUser {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, t.Content...)
	}
	return string(buf)
}
