package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook adds document_id and session_id from the event context.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if documentID := GetDocumentID(ctx); documentID != "" {
		e.Str("document_id", documentID)
	}

	if sessionID := GetSessionID(ctx); sessionID != "" {
		e.Str("session_id", sessionID)
	}
}
