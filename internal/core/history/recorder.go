package history

import (
	"context"
	"time"

	"github.com/hay-kot/tsreview/internal/core/eventbus"
	"github.com/hay-kot/tsreview/internal/core/logging"
	"github.com/hay-kot/tsreview/internal/core/notify"
)

// Recorder persists review activity published on the event bus.
// Persistence failures are logged and never surface to the reviewer.
type Recorder struct {
	store         Store
	notifications notify.Store
	now           func() time.Time
}

// NewRecorder creates a Recorder. notifications may be nil.
func NewRecorder(store Store, notifications notify.Store) *Recorder {
	return &Recorder{
		store:         store,
		notifications: notifications,
		now:           time.Now,
	}
}

// Register subscribes the recorder to every event it persists.
func (r *Recorder) Register(bus *eventbus.EventBus) {
	log := logging.Component("history")
	ctx := context.Background()

	bus.SubscribeReviewOpened(func(p eventbus.ReviewOpenedPayload) {
		err := r.store.OpenSession(ctx, Session{
			ID:                  p.SessionID,
			InitialSuggestionID: p.InitialSuggestionID,
			Reviewable:          p.Reviewable,
			Subheading:          p.Subheading,
			QueueSize:           p.QueueSize,
			OpenedAt:            r.now(),
		})
		if err != nil {
			log.Error().Err(err).Str("review_session_id", p.SessionID).Msg("failed to record session")
		}
	})

	bus.SubscribeReviewClosed(func(p eventbus.ReviewClosedPayload) {
		if err := r.store.CloseSession(ctx, p.SessionID, r.now()); err != nil {
			log.Error().Err(err).Str("review_session_id", p.SessionID).Msg("failed to close session")
		}
	})

	record := func(event eventbus.Event, sessionID, category, suggestionID string) {
		_, err := r.store.RecordEvent(ctx, Event{
			SessionID:    sessionID,
			Event:        string(event),
			Category:     category,
			SuggestionID: suggestionID,
			CreatedAt:    r.now(),
		})
		if err != nil {
			log.Error().Err(err).Str("event", string(event)).Msg("failed to record event")
		}
	}

	bus.SubscribeSuggestionViewed(func(p eventbus.SuggestionViewedPayload) {
		record(eventbus.EventSuggestionViewed, p.SessionID, p.Category, p.SuggestionID)
	})
	bus.SubscribeSuggestionAccepted(func(p eventbus.SuggestionDecisionPayload) {
		record(eventbus.EventSuggestionAccepted, p.SessionID, p.Category, p.SuggestionID)
	})
	bus.SubscribeSuggestionRejected(func(p eventbus.SuggestionDecisionPayload) {
		record(eventbus.EventSuggestionRejected, p.SessionID, p.Category, p.SuggestionID)
	})

	bus.SubscribeSuggestionResolved(func(p eventbus.SuggestionResolvedPayload) {
		_, err := r.store.RecordResolution(ctx, Resolution{
			SessionID:     p.SessionID,
			SuggestionID:  p.SuggestionID,
			TargetID:      p.TargetID,
			Action:        p.Action,
			ReviewMessage: p.ReviewMessage,
			CommitMessage: p.CommitMessage,
			Error:         p.Error,
			ResolvedAt:    r.now(),
		})
		if err != nil {
			log.Error().Err(err).Str("suggestion_id", p.SuggestionID).Msg("failed to record resolution")
		}
	})

	if r.notifications == nil {
		return
	}

	bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		_, err := r.notifications.Save(ctx, notify.Notification{
			Level:        p.Level,
			Message:      p.Message,
			SessionID:    p.SessionID,
			SuggestionID: p.SuggestionID,
			CreatedAt:    r.now(),
		})
		if err != nil {
			log.Error().Err(err).
				Str("review_session_id", p.SessionID).
				Str("suggestion_id", p.SuggestionID).
				Msg("failed to persist notification")
		}
	})
}
