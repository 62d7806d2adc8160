package history

import "errors"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("review session not found")
