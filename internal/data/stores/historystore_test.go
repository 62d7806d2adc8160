package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tsreview/internal/core/history"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/data/db"
)

func newHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewHistoryStore(database)
}

func TestHistoryStore_Sessions(t *testing.T) {
	ctx := context.Background()

	t.Run("open get close", func(t *testing.T) {
		store := newHistoryStore(t)

		opened := time.Now()
		err := store.OpenSession(ctx, history.Session{
			ID:                  "rs-1",
			InitialSuggestionID: "s1",
			Reviewable:          true,
			Subheading:          "Hindi",
			QueueSize:           3,
			OpenedAt:            opened,
		})
		require.NoError(t, err)

		got, err := store.GetSession(ctx, "rs-1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.InitialSuggestionID)
		assert.True(t, got.Reviewable)
		assert.Equal(t, "Hindi", got.Subheading)
		assert.Equal(t, 3, got.QueueSize)
		assert.Equal(t, opened.UnixNano(), got.OpenedAt.UnixNano())
		assert.False(t, got.Closed())

		first := opened.Add(time.Minute)
		require.NoError(t, store.CloseSession(ctx, "rs-1", first))
		require.NoError(t, store.CloseSession(ctx, "rs-1", first.Add(time.Hour)))

		got, err = store.GetSession(ctx, "rs-1")
		require.NoError(t, err)
		require.True(t, got.Closed())
		assert.Equal(t, first.UnixNano(), got.ClosedAt.UnixNano(), "first close wins")
	})

	t.Run("not found", func(t *testing.T) {
		store := newHistoryStore(t)

		_, err := store.GetSession(ctx, "missing")
		require.ErrorIs(t, err, history.ErrNotFound)

		err = store.CloseSession(ctx, "missing", time.Now())
		require.ErrorIs(t, err, history.ErrNotFound)
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		store := newHistoryStore(t)

		base := time.Now()
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, store.OpenSession(ctx, history.Session{
				ID:                  id,
				InitialSuggestionID: "s-" + id,
				OpenedAt:            base.Add(time.Duration(i) * time.Second),
			}))
		}

		all, err := store.ListSessions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "c", all[0].ID)

		limited, err := store.ListSessions(ctx, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, "b", limited[1].ID)
	})
}

func TestHistoryStore_Resolutions(t *testing.T) {
	ctx := context.Background()
	store := newHistoryStore(t)

	require.NoError(t, store.OpenSession(ctx, history.Session{ID: "rs-1", InitialSuggestionID: "s1", OpenedAt: time.Now()}))

	base := time.Now()
	_, err := store.RecordResolution(ctx, history.Resolution{
		SessionID:     "rs-1",
		SuggestionID:  "s1",
		TargetID:      "exp1",
		Action:        suggestion.ActionAccept,
		ReviewMessage: "looks good",
		CommitMessage: "content section of \"Intro\" card",
		ResolvedAt:    base,
	})
	require.NoError(t, err)

	id, err := store.RecordResolution(ctx, history.Resolution{
		SessionID:    "rs-1",
		SuggestionID: "s2",
		TargetID:     "exp1",
		Action:       suggestion.ActionReject,
		Error:        "Server error",
		ResolvedAt:   base.Add(time.Second),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	items, err := store.ListResolutions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "s2", items[0].SuggestionID)
	assert.Equal(t, suggestion.ActionReject, items[0].Action)
	assert.True(t, items[0].Failed())

	assert.Equal(t, "s1", items[1].SuggestionID)
	assert.Equal(t, "looks good", items[1].ReviewMessage)
	assert.Equal(t, "content section of \"Intro\" card", items[1].CommitMessage)
}

func TestHistoryStore_Events(t *testing.T) {
	ctx := context.Background()
	store := newHistoryStore(t)

	for _, ev := range []string{"suggestion.viewed-for-review", "suggestion.accepted"} {
		_, err := store.RecordEvent(ctx, history.Event{
			SessionID:    "rs-1",
			Event:        ev,
			Category:     "Translation",
			SuggestionID: "s1",
			CreatedAt:    time.Now(),
		})
		require.NoError(t, err)
	}
	_, err := store.RecordEvent(ctx, history.Event{SessionID: "rs-2", Event: "suggestion.rejected", CreatedAt: time.Now()})
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, "rs-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "suggestion.viewed-for-review", events[0].Event)
	assert.Equal(t, "Translation", events[1].Category)

	none, err := store.ListEvents(ctx, "rs-3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
