package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/data/db"
)

func newNotifyStore(t *testing.T) *NotifyStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewNotifyStore(database)
}

// seedAlerts saves alerts one second apart in the given order.
func seedAlerts(t *testing.T, store *NotifyStore, alerts ...notify.Notification) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, n := range alerts {
		n.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_, err := store.Save(context.Background(), n)
		require.NoError(t, err)
	}
}

func TestNotifyStore_review_alerts(t *testing.T) {
	ctx := context.Background()
	store := newNotifyStore(t)

	seedAlerts(t, store,
		notify.Notification{
			Level:        notify.LevelWarning,
			Message:      "Invalid Suggestion: suggestion already resolved",
			SessionID:    "rs-1",
			SuggestionID: "s1",
		},
		notify.Notification{
			Level:        notify.LevelError,
			Message:      "Failed to resolve suggestion: 503 Service Unavailable",
			SessionID:    "rs-1",
			SuggestionID: "s2",
		},
		notify.Notification{
			Level:     notify.LevelInfo,
			Message:   "review closed, no suggestions resolved",
			SessionID: "rs-2",
		},
	)

	t.Run("list is newest first and keeps the subject", func(t *testing.T) {
		all, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)

		assert.Equal(t, "rs-2", all[0].SessionID)
		assert.Empty(t, all[0].SuggestionID)

		assert.Equal(t, notify.LevelError, all[1].Level)
		assert.Equal(t, "s2", all[1].SuggestionID)

		assert.Equal(t, notify.LevelWarning, all[2].Level)
		assert.Equal(t, "s1", all[2].SuggestionID)
		assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), all[2].CreatedAt.UTC())
		assert.Positive(t, all[2].ID)
	})

	t.Run("list session filters by review session", func(t *testing.T) {
		got, err := store.ListSession(ctx, "rs-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"s2", "s1"}, []string{got[0].SuggestionID, got[1].SuggestionID})

		none, err := store.ListSession(ctx, "rs-missing")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("count then clear", func(t *testing.T) {
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		require.NoError(t, store.Clear(ctx))

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
