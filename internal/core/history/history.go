// Package history defines review history domain types and interfaces.
package history

import (
	"context"
	"time"

	"github.com/hay-kot/tsreview/internal/core/suggestion"
)

// Session is a recorded review session.
type Session struct {
	ID                  string     `json:"id"`
	InitialSuggestionID string     `json:"initial_suggestion_id"`
	Reviewable          bool       `json:"reviewable"`
	Subheading          string     `json:"subheading,omitempty"`
	QueueSize           int        `json:"queue_size"`
	OpenedAt            time.Time  `json:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
}

// Closed returns true once the session has been closed.
func (s *Session) Closed() bool {
	return s.ClosedAt != nil
}

// Resolution is a recorded accept or reject attempt.
type Resolution struct {
	ID            int64             `json:"id"`
	SessionID     string            `json:"session_id"`
	SuggestionID  string            `json:"suggestion_id"`
	TargetID      string            `json:"target_id"`
	Action        suggestion.Action `json:"action"`
	ReviewMessage string            `json:"review_message,omitempty"`
	CommitMessage string            `json:"commit_message,omitempty"`
	Error         string            `json:"error,omitempty"`
	ResolvedAt    time.Time         `json:"resolved_at"`
}

// Failed returns true if the platform rejected the resolution.
func (r *Resolution) Failed() bool {
	return r.Error != ""
}

// Event is a recorded analytics event.
type Event struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	Event        string    `json:"event"`
	Category     string    `json:"category,omitempty"`
	SuggestionID string    `json:"suggestion_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists review history.
type Store interface {
	OpenSession(ctx context.Context, s Session) error
	CloseSession(ctx context.Context, id string, closedAt time.Time) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	RecordResolution(ctx context.Context, r Resolution) (int64, error)
	ListResolutions(ctx context.Context, limit int) ([]Resolution, error)
	RecordEvent(ctx context.Context, e Event) (int64, error)
	ListEvents(ctx context.Context, sessionID string) ([]Event, error)
}
