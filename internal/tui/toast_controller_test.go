package tui

import (
	"testing"
	"time"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastController_Push(t *testing.T) {
	c := NewToastController()

	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "hello"})

	assert.True(t, c.HasToasts())
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "hello", c.Toasts()[0].notification.Message)
	assert.Equal(t, defaultToastTTL, c.Toasts()[0].remaining)
}

func TestToastController_Push_evicts_oldest_at_max(t *testing.T) {
	c := NewToastController()

	for i := range defaultMaxToasts + 2 {
		c.Push(notify.Notification{
			Level:   notify.LevelInfo,
			Message: time.Duration(i).String(),
		})
	}

	assert.Len(t, c.Toasts(), defaultMaxToasts)
	// Oldest two should have been evicted; first remaining is "2".
	assert.Equal(t, "2ns", c.Toasts()[0].notification.Message)
}

func TestToastController_Tick_decrements_TTL(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "tick"})

	c.Tick(1 * time.Second)

	assert.Equal(t, defaultToastTTL-1*time.Second, c.Toasts()[0].remaining)
}

func TestToastController_Tick_removes_expired(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "expires"})
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "survives"})

	// Expire the first one by consuming most of its TTL, then add time.
	c.toasts[0].remaining = 50 * time.Millisecond
	c.Tick(100 * time.Millisecond)

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "survives", c.Toasts()[0].notification.Message)
}

func TestToastController_Dismiss(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "first"})
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "second"})

	c.Dismiss()

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "first", c.Toasts()[0].notification.Message)
}

func TestToastController_Dismiss_empty(t *testing.T) {
	c := NewToastController()
	c.Dismiss() // should not panic
	assert.False(t, c.HasToasts())
}

func TestToastController_DismissAll(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "a"})
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "b"})

	c.DismissAll()

	assert.False(t, c.HasToasts())
	assert.Empty(t, c.Toasts())
}

func TestToastController_Ticking(t *testing.T) {
	c := NewToastController()
	assert.False(t, c.Ticking())

	c.SetTicking(true)
	assert.True(t, c.Ticking())

	c.SetTicking(false)
	assert.False(t, c.Ticking())
}

func TestToastController_Push_alert_levels_live_longer(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Notification{Level: notify.LevelWarning, Message: "warn"})
	c.Push(notify.Notification{Level: notify.LevelError, Message: "err"})

	assert.Equal(t, alertToastTTL, c.Toasts()[0].remaining)
	assert.Equal(t, alertToastTTL, c.Toasts()[1].remaining)
}

func TestToastController_AlertPresenter(t *testing.T) {
	c := NewToastController()

	var pushed []notify.Notification
	c.OnPush(func(n notify.Notification) { pushed = append(pushed, n) })

	c.AddWarning("old warning")
	c.AddError("failed")
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "info"})

	c.ClearWarnings()
	c.AddWarning("Invalid Suggestion: bad format")

	require.Len(t, c.Toasts(), 3)
	assert.Equal(t, "failed", c.Toasts()[0].notification.Message)
	assert.Equal(t, "info", c.Toasts()[1].notification.Message)
	assert.Equal(t, "Invalid Suggestion: bad format", c.Toasts()[2].notification.Message)
	assert.Equal(t, notify.LevelWarning, c.Toasts()[2].notification.Level)

	require.Len(t, pushed, 4)
	assert.False(t, pushed[0].CreatedAt.IsZero())
}

func TestToastController_About_tags_alerts_with_suggestion_on_screen(t *testing.T) {
	c := NewToastController()

	var pushed []notify.Notification
	c.OnPush(func(n notify.Notification) { pushed = append(pushed, n) })

	active := "s1"
	c.About(func() notify.Subject { return notify.Subject{SessionID: "rs-1", SuggestionID: active} })

	c.AddWarning("Invalid Suggestion: gone")
	active = "s2"
	c.AddError("Failed to resolve suggestion: 500")
	c.Push(notify.Notification{Level: notify.LevelInfo, Message: "pinned", SuggestionID: "s9"})

	require.Len(t, pushed, 3)
	assert.Equal(t, "rs-1", pushed[0].SessionID)
	assert.Equal(t, "s1", pushed[0].SuggestionID)
	assert.Equal(t, "s2", pushed[1].SuggestionID)
	assert.Equal(t, "s9", pushed[2].SuggestionID, "ids set by the caller are kept")
	assert.Equal(t, "rs-1", pushed[2].SessionID)
}
