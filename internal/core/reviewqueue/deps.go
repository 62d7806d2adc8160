package reviewqueue

import (
	"context"

	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/core/thread"
)

// AlertPresenter shows warnings and errors to the reviewer.
type AlertPresenter interface {
	ClearWarnings()
	AddWarning(msg string)
	AddError(msg string)
}

// AnalyticsRecorder records review activity. Every event is tagged with a
// content category such as "Translation".
type AnalyticsRecorder interface {
	RecordViewedForReview(category, suggestionID string)
	RecordAccepted(category, suggestionID string)
	RecordRejected(category, suggestionID string)
}

// ResolveRequest is a single accept or reject call to the platform.
type ResolveRequest struct {
	TargetID      string
	SuggestionID  string
	Action        suggestion.Action
	ReviewMessage string
	CommitMessage string
}

// SuggestionResolver sends a resolution to the platform.
type SuggestionResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) error
}

// ThreadMessageFetcher loads the discussion thread of a suggestion.
type ThreadMessageFetcher interface {
	FetchThread(ctx context.Context, threadID string) (thread.Thread, error)
}

// Closer is notified once when the session closes, with the ids resolved
// during the session in order.
type Closer interface {
	Close(resolvedIDs []string)
}

// CloserFunc adapts a function to the Closer interface.
type CloserFunc func(resolvedIDs []string)

// Close calls fn(resolvedIDs).
func (fn CloserFunc) Close(resolvedIDs []string) { fn(resolvedIDs) }

// Deps are the collaborators a Controller calls out to. Closer may be nil.
type Deps struct {
	Alerts    AlertPresenter
	Analytics AnalyticsRecorder
	Resolver  SuggestionResolver
	Threads   ThreadMessageFetcher
	Closer    Closer
}
