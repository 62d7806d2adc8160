// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within tsreview.
package eventbus

import (
	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
)

// Event names a kind of event published on the bus.
type Event string

const (
	EventNotificationPublished Event = "notification.published"
	EventReviewClosed          Event = "review.closed"
	EventReviewOpened          Event = "review.opened"
	EventSuggestionAccepted    Event = "suggestion.accepted"
	EventSuggestionRejected    Event = "suggestion.rejected"
	EventSuggestionResolved    Event = "suggestion.resolved"
	EventSuggestionViewed      Event = "suggestion.viewed-for-review"
)

// Events defines all event types and their payload structs.
var Events = map[Event]any{
	// Keep list sorted A-Z
	EventNotificationPublished: NotificationPublishedPayload{},
	EventReviewClosed:          ReviewClosedPayload{},
	EventReviewOpened:          ReviewOpenedPayload{},
	EventSuggestionAccepted:    SuggestionDecisionPayload{},
	EventSuggestionRejected:    SuggestionDecisionPayload{},
	EventSuggestionResolved:    SuggestionResolvedPayload{},
	EventSuggestionViewed:      SuggestionViewedPayload{},
}

// ReviewOpenedPayload is emitted when a review session starts.
type ReviewOpenedPayload struct {
	SessionID           string
	InitialSuggestionID string
	Reviewable          bool
	Subheading          string
	QueueSize           int
}

// ReviewClosedPayload is emitted when a review session closes.
type ReviewClosedPayload struct {
	SessionID   string
	ResolvedIDs []string
}

// SuggestionViewedPayload is emitted once per reviewable session when the
// first suggestion is shown for review.
type SuggestionViewedPayload struct {
	SessionID    string
	Category     string
	SuggestionID string
}

// SuggestionDecisionPayload is emitted when a reviewer accepts or rejects a
// suggestion.
type SuggestionDecisionPayload struct {
	SessionID    string
	Category     string
	SuggestionID string
}

// SuggestionResolvedPayload is emitted after every accept or reject call to
// the platform, successful or not. Error is empty on success.
type SuggestionResolvedPayload struct {
	SessionID     string
	SuggestionID  string
	TargetID      string
	Action        suggestion.Action
	ReviewMessage string
	CommitMessage string
	Error         string
}

// NotificationPublishedPayload is emitted for user-facing notifications.
// SessionID and SuggestionID are empty when the alert is not tied to one.
type NotificationPublishedPayload struct {
	Level        notify.Level
	Message      string
	SessionID    string
	SuggestionID string
}

// NotificationPayload converts a review alert into its bus payload.
func NotificationPayload(n notify.Notification) NotificationPublishedPayload {
	return NotificationPublishedPayload{
		Level:        n.Level,
		Message:      n.Message,
		SessionID:    n.SessionID,
		SuggestionID: n.SuggestionID,
	}
}
