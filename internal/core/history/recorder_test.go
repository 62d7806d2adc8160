package history_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tsreview/internal/core/eventbus"
	"github.com/hay-kot/tsreview/internal/core/eventbus/testbus"
	"github.com/hay-kot/tsreview/internal/core/history"
	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
)

type memStore struct {
	mu          sync.Mutex
	sessions    map[string]history.Session
	resolutions []history.Resolution
	events      []history.Event
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]history.Session{}}
}

func (m *memStore) OpenSession(_ context.Context, s history.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) CloseSession(_ context.Context, id string, closedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return history.ErrNotFound
	}
	s.ClosedAt = &closedAt
	m.sessions[id] = s
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (history.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return history.Session{}, history.ErrNotFound
	}
	return s, nil
}

func (m *memStore) ListSessions(context.Context, int) ([]history.Session, error) {
	return nil, nil
}

func (m *memStore) RecordResolution(_ context.Context, r history.Resolution) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions = append(m.resolutions, r)
	return int64(len(m.resolutions)), nil
}

func (m *memStore) ListResolutions(context.Context, int) ([]history.Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]history.Resolution(nil), m.resolutions...), nil
}

func (m *memStore) RecordEvent(_ context.Context, e history.Event) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return int64(len(m.events)), nil
}

func (m *memStore) ListEvents(_ context.Context, sessionID string) ([]history.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []history.Event
	for _, e := range m.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memNotifications struct {
	mu    sync.Mutex
	saved []notify.Notification
}

func (m *memNotifications) Save(_ context.Context, n notify.Notification) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, n)
	return int64(len(m.saved)), nil
}

func (m *memNotifications) List(context.Context) ([]notify.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.saved...), nil
}

func (m *memNotifications) ListSession(_ context.Context, sessionID string) ([]notify.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notify.Notification
	for _, n := range m.saved {
		if n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) Clear(context.Context) error { return nil }

func (m *memNotifications) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.saved)), nil
}

func TestRecorder_PersistsSessionLifecycle(t *testing.T) {
	store := newMemStore()
	notes := &memNotifications{}

	tb := testbus.New(t)
	history.NewRecorder(store, notes).Register(tb.EventBus)

	tb.PublishReviewOpened(eventbus.ReviewOpenedPayload{
		SessionID:           "rs-1",
		InitialSuggestionID: "s1",
		Reviewable:          true,
		QueueSize:           2,
	})
	tb.PublishSuggestionViewed(eventbus.SuggestionViewedPayload{SessionID: "rs-1", Category: "Translation", SuggestionID: "s1"})
	tb.PublishSuggestionResolved(eventbus.SuggestionResolvedPayload{
		SessionID:    "rs-1",
		SuggestionID: "s1",
		TargetID:     "exp1",
		Action:       suggestion.ActionAccept,
	})
	tb.PublishSuggestionAccepted(eventbus.SuggestionDecisionPayload{SessionID: "rs-1", Category: "Translation", SuggestionID: "s1"})
	tb.PublishReviewClosed(eventbus.ReviewClosedPayload{SessionID: "rs-1", ResolvedIDs: []string{"s1"}})
	tb.PublishNotificationPublished(eventbus.NotificationPublishedPayload{
		Level:        notify.LevelWarning,
		Message:      "Invalid Suggestion: gone",
		SessionID:    "rs-1",
		SuggestionID: "s1",
	})

	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	require.Eventually(t, func() bool {
		n, _ := notes.Count(context.Background())
		return n == 1
	}, time.Second, 5*time.Millisecond)

	sess, err := store.GetSession(context.Background(), "rs-1")
	require.NoError(t, err)
	assert.True(t, sess.Reviewable)
	assert.Equal(t, 2, sess.QueueSize)
	assert.True(t, sess.Closed())

	resolutions, err := store.ListResolutions(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, resolutions, 1)
	assert.Equal(t, suggestion.ActionAccept, resolutions[0].Action)
	assert.False(t, resolutions[0].Failed())

	events, err := store.ListEvents(context.Background(), "rs-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(eventbus.EventSuggestionViewed), events[0].Event)
	assert.Equal(t, string(eventbus.EventSuggestionAccepted), events[1].Event)

	alerts, err := notes.ListSession(context.Background(), "rs-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.LevelWarning, alerts[0].Level)
	assert.Equal(t, "s1", alerts[0].SuggestionID)
	assert.False(t, alerts[0].CreatedAt.IsZero())
}

func TestRecorder_NilNotificationStore(t *testing.T) {
	store := newMemStore()

	tb := testbus.New(t)
	history.NewRecorder(store, nil).Register(tb.EventBus)

	tb.PublishNotificationPublished(eventbus.NotificationPublishedPayload{Level: notify.LevelInfo, Message: "ignored"})
	tb.AssertPublished(t, eventbus.EventNotificationPublished)
}
