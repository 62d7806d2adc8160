// Package logging holds zerolog helpers shared by tsreview components.
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

// ReviewSession creates a component logger bound to a review session. The
// ContextHook is attached so suggestion ids carried by a context are logged
// as well.
func ReviewSession(name, sessionID string) zerolog.Logger {
	return log.With().
		Str("cmp", name).
		Str("review_session_id", sessionID).
		Logger().
		Hook(ContextHook{})
}
