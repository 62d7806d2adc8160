package logging

import "context"

type contextKey string

const (
	reviewSessionIDKey contextKey = "review_session_id"
	suggestionIDKey    contextKey = "suggestion_id"
)

// WithReviewSessionID adds a review session ID to the context.
func WithReviewSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reviewSessionIDKey, id)
}

// WithSuggestionID adds the suggestion being worked on to the context.
func WithSuggestionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, suggestionIDKey, id)
}

// GetReviewSessionID retrieves the review session ID from the context.
// Returns empty string if not present.
func GetReviewSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(reviewSessionIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSuggestionID retrieves the suggestion ID from the context.
// Returns empty string if not present.
func GetSuggestionID(ctx context.Context) string {
	if id, ok := ctx.Value(suggestionIDKey).(string); ok {
		return id
	}
	return ""
}
