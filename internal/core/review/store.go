package review

import (
	"context"
	"errors"
)

// Sentinel errors for review operations.
var (
	ErrSessionNotFound = errors.New("review session not found")
)

// Store defines persistence operations for review sessions.
type Store interface {
	// GetSession returns the session recorded for a document.
	// Returns ErrSessionNotFound if none exists.
	GetSession(ctx context.Context, documentID string) (Session, error)

	// SaveSession writes the session, replacing any previous one for the
	// same document.
	SaveSession(ctx context.Context, session Session) error

	// DeleteSession removes the session for a document.
	// Returns ErrSessionNotFound if none exists.
	DeleteSession(ctx context.Context, documentID string) error
}
