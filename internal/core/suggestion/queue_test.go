package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sugg(id string) Suggestion {
	return Suggestion{ID: id, TargetID: "exp1", Status: StatusPending}
}

func TestQueue_Pop_is_last_in_first_out(t *testing.T) {
	q := NewQueue(sugg("a"), sugg("b"), sugg("c"))

	var got []string
	for !q.IsEmpty() {
		s, err := q.Pop()
		require.NoError(t, err)
		got = append(got, s.ID)
	}

	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestQueue_Pop_empty(t *testing.T) {
	q := NewQueue()

	_, err := q.Pop()

	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueue_Take_removes_item(t *testing.T) {
	q := NewQueue(sugg("a"), sugg("b"), sugg("c"))

	s, err := q.Take("b")
	require.NoError(t, err)

	assert.Equal(t, "b", s.ID)
	assert.False(t, q.Contains("b"))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"c", "a"}, q.IDs())
}

func TestQueue_Take_missing(t *testing.T) {
	q := NewQueue(sugg("a"))

	_, err := q.Take("zzz")

	assert.ErrorIs(t, err, ErrSuggestionNotFound)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Push_existing_moves_to_top(t *testing.T) {
	q := NewQueue(sugg("a"), sugg("b"))

	q.Push(sugg("a"))

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"a", "b"}, q.IDs())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"accepted", StatusAccepted},
		{"rejected", StatusRejected},
		{"review", StatusPending},
		{"received", StatusPending},
		{"", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.in))
			assert.True(t, ParseStatus(tt.in).IsValid())
		})
	}
}
