package eventbus

import (
	"context"

	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
)

// PublishingResolver wraps a SuggestionResolver and publishes
// EventSuggestionResolved after every call.
type PublishingResolver struct {
	bus       *EventBus
	sessionID string
	next      reviewqueue.SuggestionResolver
}

var _ reviewqueue.SuggestionResolver = (*PublishingResolver)(nil)

// NewPublishingResolver returns a resolver that forwards to next.
func NewPublishingResolver(bus *EventBus, sessionID string, next reviewqueue.SuggestionResolver) *PublishingResolver {
	return &PublishingResolver{bus: bus, sessionID: sessionID, next: next}
}

func (r *PublishingResolver) Resolve(ctx context.Context, req reviewqueue.ResolveRequest) error {
	err := r.next.Resolve(ctx, req)

	p := SuggestionResolvedPayload{
		SessionID:     r.sessionID,
		SuggestionID:  req.SuggestionID,
		TargetID:      req.TargetID,
		Action:        req.Action,
		ReviewMessage: req.ReviewMessage,
		CommitMessage: req.CommitMessage,
	}
	if err != nil {
		p.Error = err.Error()
	}
	r.bus.PublishSuggestionResolved(p)

	return err
}
