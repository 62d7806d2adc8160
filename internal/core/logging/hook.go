package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts review_session_id and suggestion_id from context and
// adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetReviewSessionID(ctx); id != "" {
		e.Str("review_session_id", id)
	}

	if id := GetSuggestionID(ctx); id != "" {
		e.Str("suggestion_id", id)
	}
}
