package eventbus

// Analytics publishes review activity on the bus. It satisfies
// reviewqueue.AnalyticsRecorder.
type Analytics struct {
	bus       *EventBus
	sessionID string
}

// NewAnalytics returns an Analytics recorder for one review session.
func NewAnalytics(bus *EventBus, sessionID string) *Analytics {
	return &Analytics{bus: bus, sessionID: sessionID}
}

func (a *Analytics) RecordViewedForReview(category, suggestionID string) {
	a.bus.PublishSuggestionViewed(SuggestionViewedPayload{
		SessionID:    a.sessionID,
		Category:     category,
		SuggestionID: suggestionID,
	})
}

func (a *Analytics) RecordAccepted(category, suggestionID string) {
	a.bus.PublishSuggestionAccepted(SuggestionDecisionPayload{
		SessionID:    a.sessionID,
		Category:     category,
		SuggestionID: suggestionID,
	})
}

func (a *Analytics) RecordRejected(category, suggestionID string) {
	a.bus.PublishSuggestionRejected(SuggestionDecisionPayload{
		SessionID:    a.sessionID,
		Category:     category,
		SuggestionID: suggestionID,
	})
}
