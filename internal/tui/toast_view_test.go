package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/styles"
	"github.com/hay-kot/tsreview/pkg/tuitest"
)

func TestToastView_no_alerts_renders_nothing(t *testing.T) {
	v := NewToastView(NewToastController())

	assert.Empty(t, v.View())
	assert.Equal(t, "review modal", v.Overlay("review modal", 80, 24))
}

func TestToastView_review_alerts_by_level(t *testing.T) {
	tests := []struct {
		name string
		push func(c *ToastController)
		icon string
		text string
	}{
		{
			name: "invalid suggestion warning",
			push: func(c *ToastController) { c.AddWarning("Invalid Suggestion: already resolved") },
			icon: styles.IconNotifyWarning,
			text: "Invalid Suggestion",
		},
		{
			name: "resolve failure error",
			push: func(c *ToastController) { c.AddError("Failed to resolve suggestion: 503") },
			icon: styles.IconNotifyError,
			text: "Failed to resolve",
		},
		{
			name: "info",
			push: func(c *ToastController) {
				c.Push(notify.Notification{Level: notify.LevelInfo, Message: "review closed"})
			},
			icon: styles.IconNotifyInfo,
			text: "review closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewToastController()
			tt.push(c)

			out := NewToastView(c).View()
			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, tt.text)
		})
	}
}

func TestToastView_shows_suggestion_of_alert(t *testing.T) {
	c := NewToastController()
	c.About(func() notify.Subject { return notify.Subject{SessionID: "rs-1", SuggestionID: "sugg-42"} })
	c.AddWarning("Invalid Suggestion: gone")

	assert.Contains(t, NewToastView(c).View(), "sugg-42")
}

func TestToastView_oldest_alert_on_top(t *testing.T) {
	c := NewToastController()
	c.AddWarning("Invalid Suggestion: first")
	c.AddError("Failed to resolve suggestion: second")

	out := NewToastView(c).View()
	first := strings.Index(out, "first")
	second := strings.Index(out, "second")

	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestToastView_Overlay_keeps_background_around_toast(t *testing.T) {
	const width, height = 100, 20

	c := NewToastController()
	c.AddError("Failed to resolve suggestion: timeout")

	lines := tuitest.Rows(NewToastView(c).Overlay(tuitest.Screen("B", width, height), width, height))
	require.Len(t, lines, height)

	toastRow := -1
	for i, line := range lines {
		if strings.Contains(line, "Failed to resolve") {
			toastRow = i
			break
		}
	}
	require.NotEqual(t, -1, toastRow, "toast text not found")
	assert.Greater(t, toastRow, height/2, "toast sits in the lower half")

	assert.Equal(t, strings.Repeat("B", width), lines[0], "rows above the toast are untouched")

	row := lines[toastRow]
	assert.True(t, strings.HasPrefix(row, strings.Repeat("B", 40)), "columns left of the toast are untouched: %q", row)
	assert.True(t, strings.HasSuffix(row, "B"), "the last column stays free: %q", row)
}
