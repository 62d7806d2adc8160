package tui

import (
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
	"github.com/hay-kot/tsreview/internal/core/thread"
)

// resolveResultMsg carries the outcome of a resolution run off the update loop.
type resolveResultMsg struct {
	outcome reviewqueue.Outcome
}

// threadResultMsg carries a fetched suggestion thread.
type threadResultMsg struct {
	id     string
	thread thread.Thread
	err    error
}
