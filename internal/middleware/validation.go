package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTurnContentBytes bounds a single user turn.
const MaxTurnContentBytes = 10000

// ValidateTurnContent validates user turn content. Empty content is allowed;
// the conversation answers it by asking for more.
func ValidateTurnContent(content string) error {
	if len(content) > MaxTurnContentBytes {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}
