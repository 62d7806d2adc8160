package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/styles"
	"github.com/hay-kot/tsreview/pkg/tuitest"
)

// stubStore is a minimal notify.Store for testing that can optionally return errors.
type stubStore struct {
	items    []notify.Notification
	nextID   int64
	listErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)
	return n.ID, nil
}

func (s *stubStore) List(_ context.Context) ([]notify.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]notify.Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *stubStore) ListSession(ctx context.Context, sessionID string) ([]notify.Notification, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]notify.Notification, 0, len(all))
	for _, n := range all {
		if n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.items = nil
	return nil
}

func (s *stubStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubStore) add(level notify.Level, msg string) {
	s.addFor(notify.Subject{SessionID: "rs-1"}, level, msg)
}

func (s *stubStore) addFor(subject notify.Subject, level notify.Level, msg string) {
	n := notify.Notification{Level: level, Message: msg, CreatedAt: time.Now()}
	_, _ = s.Save(context.Background(), n.About(subject))
}

func TestNotificationModal_empty_history(t *testing.T) {
	m := NewNotificationModal(&stubStore{}, "rs-1", 100, 40)

	content := m.viewport.View()
	assert.Contains(t, content, "No notifications")
}

func TestNotificationModal_populated_history(t *testing.T) {
	store := &stubStore{}
	store.add(notify.LevelInfo, "first message")
	store.add(notify.LevelError, "second message")
	store.add(notify.LevelWarning, "third message")

	m := NewNotificationModal(store, "rs-1", 100, 40)
	content := m.viewport.View()

	assert.Contains(t, content, "first message")
	assert.Contains(t, content, "second message")
	assert.Contains(t, content, "third message")
}

func TestNotificationModal_history_error(t *testing.T) {
	store := &stubStore{
		listErr: errors.New("db connection failed"),
	}
	m := NewNotificationModal(store, "rs-1", 100, 40)
	content := m.viewport.View()

	assert.Contains(t, content, "failed to load notifications")
	assert.Contains(t, content, "db connection failed")
}

func TestNotificationModal_Clear_removes_notifications(t *testing.T) {
	store := &stubStore{}
	store.add(notify.LevelInfo, "will be cleared")

	m := NewNotificationModal(store, "rs-1", 100, 40)
	require.Contains(t, m.viewport.View(), "will be cleared")

	err := m.Clear()
	require.NoError(t, err)

	assert.Contains(t, m.viewport.View(), "No notifications")
}

func TestNotificationModal_Clear_returns_store_error(t *testing.T) {
	store := &stubStore{
		clearErr: errors.New("clear failed"),
	}
	m := NewNotificationModal(store, "rs-1", 100, 40)
	err := m.Clear()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear failed")
}

func TestNotificationModal_formatNotification_levels(t *testing.T) {
	now := time.Date(2026, 1, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelInfo, styles.IconNotifyInfo},
		{notify.LevelWarning, styles.IconNotifyWarning},
		{notify.LevelError, styles.IconNotifyError},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			n := notify.Notification{
				Level:     tt.level,
				Message:   "test",
				CreatedAt: now,
			}
			out := NewNotificationModal(nil, "rs-1", 100, 40).formatNotification(n)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "14:30:45")
			assert.Contains(t, out, "test")
		})
	}
}

func TestNotificationModal_nil_store(t *testing.T) {
	m := NewNotificationModal(nil, "rs-1", 100, 40)
	assert.Contains(t, m.viewport.View(), "No notifications")
	require.NoError(t, m.Clear())
	assert.Contains(t, m.Overlay(tuitest.Screen(" ", 100, 40), 100, 40), "Notifications")
}

func TestNotificationModal_scope_follows_session(t *testing.T) {
	store := &stubStore{}
	store.addFor(notify.Subject{SessionID: "rs-1", SuggestionID: "s1"}, notify.LevelWarning, "Invalid Suggestion: bad format")
	store.addFor(notify.Subject{SessionID: "rs-2", SuggestionID: "s9"}, notify.LevelError, "Failed to resolve suggestion: timeout")

	m := NewNotificationModal(store, "rs-1", 100, 40)
	require.False(t, m.AllSessions())
	content := m.viewport.View()
	assert.Contains(t, content, "Invalid Suggestion")
	assert.NotContains(t, content, "Failed to resolve suggestion")

	m.ToggleScope()
	require.True(t, m.AllSessions())
	content = m.viewport.View()
	assert.Contains(t, content, "Invalid Suggestion")
	assert.Contains(t, content, "Failed to resolve suggestion")
	assert.Contains(t, content, "(session rs-2)")

	m.ToggleScope()
	assert.NotContains(t, m.viewport.View(), "Failed to resolve suggestion")
}

func TestNotificationModal_without_session_shows_all(t *testing.T) {
	store := &stubStore{}
	store.addFor(notify.Subject{SessionID: "rs-2"}, notify.LevelInfo, "older session")

	m := NewNotificationModal(store, "", 100, 40)
	assert.True(t, m.AllSessions())
	assert.Contains(t, m.viewport.View(), "older session")

	m.ToggleScope()
	assert.True(t, m.AllSessions())
}

func TestNotificationModal_shows_suggestion_of_alert(t *testing.T) {
	store := &stubStore{}
	store.addFor(notify.Subject{SessionID: "rs-1", SuggestionID: "sugg-42"}, notify.LevelWarning, "Invalid Suggestion: bad format")

	m := NewNotificationModal(store, "rs-1", 100, 40)
	assert.Contains(t, m.viewport.View(), "[sugg-42]")
}

func TestNotificationModal_Overlay_keeps_background(t *testing.T) {
	const width, height = 100, 40
	m := NewNotificationModal(&stubStore{}, "rs-1", width, height)

	lines := tuitest.Rows(m.Overlay(tuitest.Screen("B", width, height), width, height))
	require.Len(t, lines, height)

	assert.Equal(t, strings.Repeat("B", width), lines[0])
	assert.Equal(t, strings.Repeat("B", width), lines[height-1])

	mid := lines[height/2]
	assert.True(t, strings.HasPrefix(mid, "BB"), "left of the modal: %q", mid)
	assert.True(t, strings.HasSuffix(mid, "BB"), "right of the modal: %q", mid)
	assert.Contains(t, strings.Join(lines, "\n"), "Notifications")
}
