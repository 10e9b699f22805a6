package model

import (
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeReset   EventType = "reset"
	EventTypeDeleted EventType = "deleted"
)

// SessionEvent is a lifecycle event recorded in the journal.
type SessionEvent struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	TenantID  string         `json:"tenant_id"`
	Type      EventType      `json:"type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// JournalTurn is a turn as recorded in the journal.
type JournalTurn struct {
	SessionID  string    `json:"session_id"`
	TenantID   string    `json:"tenant_id"`
	Turn       Turn      `json:"turn"`
	RecordedAt time.Time `json:"recorded_at"`

	// Stream sequence, populated on read.
	StreamSequence uint64 `json:"stream_sequence,omitempty"`
}

// JournalRoadmap is a generated roadmap as recorded in the journal.
type JournalRoadmap struct {
	SessionID string          `json:"session_id"`
	TenantID  string          `json:"tenant_id"`
	Entry     ArchivedRoadmap `json:"entry"`
}

// JournalResponse is the response for replaying a session journal.
type JournalResponse struct {
	Turns        []JournalTurn `json:"turns"`
	HasMore      bool          `json:"has_more"`
	LastSequence uint64        `json:"last_sequence"`
}
