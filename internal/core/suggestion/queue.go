package suggestion

import "errors"

// ErrQueueEmpty is returned by Pop when no suggestions remain.
var ErrQueueEmpty = errors.New("suggestion queue is empty")

// Queue holds the suggestions still waiting for review. It behaves as a
// stack: Pop returns the most recently pushed suggestion.
type Queue struct {
	order []string
	items map[string]Suggestion
}

// NewQueue creates a queue from suggestions in insertion order.
func NewQueue(items ...Suggestion) *Queue {
	q := &Queue{items: make(map[string]Suggestion, len(items))}
	for _, s := range items {
		q.Push(s)
	}
	return q
}

// Push adds a suggestion to the top of the queue. Pushing an id that is
// already queued moves it to the top.
func (q *Queue) Push(s Suggestion) {
	if _, ok := q.items[s.ID]; ok {
		q.remove(s.ID)
	}
	q.order = append(q.order, s.ID)
	q.items[s.ID] = s
}

// Pop removes and returns the most recently pushed suggestion.
func (q *Queue) Pop() (Suggestion, error) {
	if len(q.order) == 0 {
		return Suggestion{}, ErrQueueEmpty
	}

	id := q.order[len(q.order)-1]
	q.order = q.order[:len(q.order)-1]
	s := q.items[id]
	delete(q.items, id)
	return s, nil
}

// Take removes the suggestion with the given id.
func (q *Queue) Take(id string) (Suggestion, error) {
	s, ok := q.items[id]
	if !ok {
		return Suggestion{}, ErrSuggestionNotFound
	}
	q.remove(id)
	return s, nil
}

// Contains reports whether id is still queued.
func (q *Queue) Contains(id string) bool {
	_, ok := q.items[id]
	return ok
}

// Len returns the number of queued suggestions.
func (q *Queue) Len() int {
	return len(q.order)
}

// IsEmpty returns true when no suggestions remain.
func (q *Queue) IsEmpty() bool {
	return len(q.order) == 0
}

// IDs returns queued ids in pop order (next to be popped first).
func (q *Queue) IDs() []string {
	ids := make([]string, 0, len(q.order))
	for i := len(q.order) - 1; i >= 0; i-- {
		ids = append(ids, q.order[i])
	}
	return ids
}

func (q *Queue) remove(id string) {
	delete(q.items, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}
