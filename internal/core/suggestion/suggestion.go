// Package suggestion defines translation suggestions and the queue a reviewer
// works through.
package suggestion

import (
	"errors"
	"time"
)

// ErrSuggestionNotFound is returned when a suggestion id is not present.
var ErrSuggestionNotFound = errors.New("suggestion not found")

// ImageContextTranslationSuggestion is the image context passed to content
// renderers for suggestion HTML.
const ImageContextTranslationSuggestion = "translation_suggestion"

// Status represents the review state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus normalizes the status spellings used by the platform.
// Unknown values are reported as pending.
func ParseStatus(s string) Status {
	switch s {
	case "accepted":
		return StatusAccepted
	case "rejected":
		return StatusRejected
	default:
		// "review" and "received" are the platform's in-review states
		return StatusPending
	}
}

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Action is the decision a reviewer takes on a suggestion.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Change is the proposed translation for a single piece of content.
type Change struct {
	ContentID       string
	StateName       string
	TranslationHTML string
	ContentHTML     string
}

// Suggestion is a pending translation proposed for a content target.
type Suggestion struct {
	ID           string
	TargetID     string
	Status       Status
	Change       Change
	AuthorName   string
	LanguageCode string
	LastUpdated  time.Time
}

// IsRejected reports whether the suggestion was already rejected.
func (s Suggestion) IsRejected() bool {
	return s.Status == StatusRejected
}
