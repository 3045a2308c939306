package logging

import "context"

type contextKey string

const (
	documentIDKey contextKey = "document_id"
	sessionIDKey  contextKey = "session_id"
)

// WithDocumentID adds the reviewed document's ID to the context.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, documentIDKey, documentID)
}

// WithSessionID adds a review session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetDocumentID retrieves the document ID from the context.
// Returns empty string if not present.
func GetDocumentID(ctx context.Context) string {
	if id, ok := ctx.Value(documentIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSessionID retrieves the session ID from the context.
// Returns empty string if not present.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
