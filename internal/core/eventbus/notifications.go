package eventbus

import (
	"fmt"

	"github.com/hay-kot/tsreview/internal/core/notify"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeReviewClosed(func(p ReviewClosedPayload) {
		switch n := len(p.ResolvedIDs); n {
		case 0:
			r.notifyf(p.SessionID, notify.LevelInfo, "review closed, no suggestions resolved")
		case 1:
			r.notifyf(p.SessionID, notify.LevelInfo, "review closed, 1 suggestion resolved")
		default:
			r.notifyf(p.SessionID, notify.LevelInfo, "review closed, %d suggestions resolved", n)
		}
	})
}

func (r *NotificationRouter) notifyf(sessionID string, level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		SessionID: sessionID,
	})
}
