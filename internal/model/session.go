package model

import (
	"time"
)

// Session describes a conversation session owned by a tenant.
type Session struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	UserID      string       `json:"user_id"`
	State       SessionState `json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	TurnCount   int          `json:"turn_count"`
	ArchiveSize int          `json:"archive_size"`
	CareerGoal  string       `json:"career_goal,omitempty"`
}

// SessionSnapshot is a read-only view of a session's conversation.
type SessionSnapshot struct {
	Session
	History []Turn   `json:"history"`
	Roadmap *Roadmap `json:"roadmap"`
}

// CreateSessionResponse is returned when a session is created.
type CreateSessionResponse struct {
	Session  *Session `json:"session"`
	Greeting string   `json:"greeting"`
}

// ListSessionsResponse is the response for listing sessions.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}

// SubmitTurnRequest is the request to submit a user turn.
type SubmitTurnRequest struct {
	Content string `json:"content"`
}

// TurnResult is the outcome of one submitted user turn.
type TurnResult struct {
	Decision      Decision `json:"decision"`
	Reply         string   `json:"reply"`
	Roadmap       *Roadmap `json:"roadmap"`
	Category      string   `json:"category,omitempty"`
	UserTurn      Turn     `json:"user_turn"`
	AssistantTurn Turn     `json:"assistant_turn"`
}

// ArchiveResponse lists the roadmaps generated in a session.
type ArchiveResponse struct {
	Roadmaps []ArchivedRoadmap `json:"roadmaps"`
}

// CategoryInfo describes one career category.
type CategoryInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// TokenEvent represents a streamed chunk of an assistant reply.
type TokenEvent struct {
	Token string `json:"token"`
	Index int    `json:"index"`
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
