package reviewqueue

import "errors"

var (
	// ErrNotReviewable is returned when accept or reject is attempted on a
	// read-only session.
	ErrNotReviewable = errors.New("session is read-only")

	// ErrResolutionInFlight is returned when accept or reject is attempted
	// while a previous resolution has not completed.
	ErrResolutionInFlight = errors.New("a resolution is already in flight")

	// ErrSessionClosed is returned for any action after the session closed.
	ErrSessionClosed = errors.New("review session is closed")

	// ErrUnexpectedOutcome is returned when an outcome does not belong to the
	// request currently in flight.
	ErrUnexpectedOutcome = errors.New("outcome does not match the request in flight")
)
