package orchestrator

import (
	"slices"

	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/responder"
)

// Session is the explicit per-session conversation state. It is owned by the
// caller and must not be shared between conversations. A Session is not safe
// for concurrent use; callers serialise turns.
type Session struct {
	state   model.SessionState
	history []model.Turn
	current *model.Roadmap
	archive []model.ArchivedRoadmap
	nextSeq uint64

	// followUps is made on the first scripted reply and dropped on reset.
	followUps responder.Selector
}

// NewSession returns an empty session awaiting input.
func NewSession() *Session {
	return &Session{state: model.StateAwaitingInput, nextSeq: 1}
}

// State returns the orchestrator state.
func (s *Session) State() model.SessionState {
	return s.state
}

// History returns a copy of the active conversation.
func (s *Session) History() []model.Turn {
	return slices.Clone(s.history)
}

// Len returns the number of turns in the active conversation.
func (s *Session) Len() int {
	return len(s.history)
}

// Archive returns a copy of every roadmap generated in this session,
// including those from before a reset.
func (s *Session) Archive() []model.ArchivedRoadmap {
	out := make([]model.ArchivedRoadmap, len(s.archive))
	for i, a := range s.archive {
		a.Roadmap = a.Roadmap.Clone()
		out[i] = a
	}
	return out
}

// ArchiveLen returns the number of archived roadmaps.
func (s *Session) ArchiveLen() int {
	return len(s.archive)
}

// HasRoadmap reports whether a current roadmap is set.
func (s *Session) HasRoadmap() bool {
	return s.current != nil
}

// CareerGoal returns the goal of the current roadmap, if any.
func (s *Session) CareerGoal() string {
	if s.current == nil {
		return ""
	}
	return s.current.CareerGoal
}

func (s *Session) append(role model.Role, content string) model.Turn {
	t := model.Turn{Role: role, Content: content, Sequence: s.nextSeq}
	s.nextSeq++
	s.history = append(s.history, t)
	return t
}
