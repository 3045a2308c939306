package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Document returns a copy of logger that tags every event with the
// document under review.
func Document(logger zerolog.Logger, documentID string) zerolog.Logger {
	if documentID == "" {
		return logger
	}
	return logger.With().Str("document_id", documentID).Logger()
}
