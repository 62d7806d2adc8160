// Package thread models the discussion thread attached to a suggestion.
package thread

import "time"

// StatusRejected is the updated_status a reviewer's rejection message carries.
const StatusRejected = "rejected"

// Message is a single normalized thread message.
type Message struct {
	AuthorUsername string
	CreatedOn      time.Time
	EntityType     string
	EntityID       string
	MessageID      int
	Text           string
	UpdatedStatus  string
	UpdatedSubject string
}

// Thread is the ordered message list of a suggestion's thread.
type Thread struct {
	ID       string
	Messages []Message
}

// ReviewMessage returns the reviewer's message for a resolved suggestion.
//
// The message that changed the thread status to rejected is preferred. Older
// threads do not record the status change, in which case the second message
// is used: the first is the suggestion's own description and the second is
// the reviewer's reply.
func (t Thread) ReviewMessage() string {
	for _, m := range t.Messages {
		if m.UpdatedStatus == StatusRejected {
			return m.Text
		}
	}

	if len(t.Messages) >= 2 {
		return t.Messages[1].Text
	}
	return ""
}
