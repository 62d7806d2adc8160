// Package notify defines the review alerts shown to the reviewer and kept in
// the notification history.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Subject names the review session and suggestion an alert was raised for.
// Either field may be empty when the alert is not tied to one.
type Subject struct {
	SessionID    string
	SuggestionID string
}

// Notification is a single alert raised during a review session.
type Notification struct {
	ID           int64
	Level        Level
	Message      string
	SessionID    string
	SuggestionID string
	CreatedAt    time.Time
}

// About fills in the session and suggestion from s. Ids already set on n are
// kept.
func (n Notification) About(s Subject) Notification {
	if n.SessionID == "" {
		n.SessionID = s.SessionID
	}
	if n.SuggestionID == "" {
		n.SuggestionID = s.SuggestionID
	}
	return n
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	// List returns every notification, newest first.
	List(ctx context.Context) ([]Notification, error)
	// ListSession returns the notifications raised during one review session,
	// newest first.
	ListSession(ctx context.Context, sessionID string) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
