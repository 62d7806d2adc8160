// Package reviewqueue implements the review queue controller: a reviewer is
// shown one suggestion at a time, accepts or rejects it, and the controller
// advances through the remaining queue until it is empty.
//
// The controller is owned by a single event loop and is not safe for
// concurrent use. Network work is described by [Next] values which the host
// performs off-loop; results are fed back through [Controller.Complete] and
// [Controller.ApplyThread]. [Controller.Run] performs that loop inline for
// callers that can block.
package reviewqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/tsreview/internal/core/logging"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/core/thread"
)

const (
	// CategoryTranslation tags analytics events for translation reviews.
	CategoryTranslation = "Translation"

	// InvalidSuggestionMessage is the review message sent when an accept
	// fails and the suggestion is rejected instead.
	InvalidSuggestionMessage = "Invalid Suggestion"
)

// State is the lifecycle state of a review session.
type State int

const (
	StateViewing State = iota
	StateResolving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateResolving:
		return "resolving"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configure a review session.
type Options struct {
	// SessionID identifies the session in logs and history. Generated when empty.
	SessionID           string
	InitialSuggestionID string
	Reviewable          bool
	Subheading          string
	// Suggestions is the full queue in insertion order, including the
	// initial suggestion. Ids must be unique.
	Suggestions []suggestion.Suggestion
	// Category tags analytics events. Defaults to CategoryTranslation.
	Category string
	// CommitMessageLimit caps generated commit messages. Defaults to
	// suggestion.MaxCommitMessageLength.
	CommitMessageLimit int
}

// Next is work the host must perform outside the event loop. The zero value
// means nothing is pending.
type Next struct {
	Resolve       *ResolveRequest
	FetchThreadID string
}

// IsZero reports whether no work is pending.
func (n Next) IsZero() bool {
	return n.Resolve == nil && n.FetchThreadID == ""
}

// Outcome is the result of performing a ResolveRequest.
type Outcome struct {
	Request ResolveRequest
	Err     error
}

// Controller is the state of one review session.
type Controller struct {
	opts   Options
	deps   Deps
	logger zerolog.Logger

	queue  *suggestion.Queue
	state  State
	active suggestion.Suggestion

	reviewMessage   string
	translationHTML string
	contentHTML     string
	lastToReview    bool
	resolved        []string
	viewedRecorded  bool
	inFlight        *ResolveRequest
}

// New creates a session positioned on the initial suggestion, which is
// removed from the remaining queue.
func New(opts Options, deps Deps) (*Controller, error) {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Category == "" {
		opts.Category = CategoryTranslation
	}
	if opts.CommitMessageLimit <= 0 {
		opts.CommitMessageLimit = suggestion.MaxCommitMessageLength
	}

	if deps.Alerts == nil || deps.Analytics == nil {
		return nil, errors.New("reviewqueue: alerts and analytics are required")
	}
	if opts.Reviewable && deps.Resolver == nil {
		return nil, errors.New("reviewqueue: a resolver is required for reviewable sessions")
	}
	if !opts.Reviewable && deps.Threads == nil {
		return nil, errors.New("reviewqueue: a thread fetcher is required for read-only sessions")
	}

	queue := suggestion.NewQueue()
	for _, s := range opts.Suggestions {
		if queue.Contains(s.ID) {
			return nil, fmt.Errorf("duplicate suggestion id %q", s.ID)
		}
		queue.Push(s)
	}

	active, err := queue.Take(opts.InitialSuggestionID)
	if err != nil {
		return nil, fmt.Errorf("initial suggestion %q: %w", opts.InitialSuggestionID, err)
	}

	c := &Controller{
		opts:         opts,
		deps:         deps,
		logger:       logging.ReviewSession("reviewqueue", opts.SessionID),
		queue:        queue,
		state:        StateViewing,
		active:       active,
		lastToReview: queue.IsEmpty(),
	}

	c.logger.Debug().
		Str("initial", active.ID).
		Int("remaining", queue.Len()).
		Bool("reviewable", opts.Reviewable).
		Msg("review session created")

	return c, nil
}

// Init prepares the active suggestion for display. For reviewable sessions
// the viewed-for-review event is recorded once per session. For read-only
// sessions showing a rejected suggestion, the returned Next asks the host to
// fetch the suggestion's thread.
func (c *Controller) Init() Next {
	if c.state == StateClosed {
		return Next{}
	}

	c.translationHTML = c.active.Change.TranslationHTML
	c.contentHTML = c.active.Change.ContentHTML

	if c.opts.Reviewable && !c.viewedRecorded {
		c.viewedRecorded = true
		c.deps.Analytics.RecordViewedForReview(c.opts.Category, c.active.ID)
	}

	if !c.opts.Reviewable && c.active.IsRejected() {
		return Next{FetchThreadID: c.active.ID}
	}
	return Next{}
}

// ApplyThread applies a fetched thread. Threads for a suggestion that is no
// longer active are ignored.
func (c *Controller) ApplyThread(threadID string, th thread.Thread, err error) {
	if c.state == StateClosed || threadID != c.active.ID {
		c.logger.Debug().Str("thread", threadID).Msg("dropping stale thread result")
		return
	}

	if err != nil {
		c.logger.Error().Err(err).Str("thread", threadID).Msg("failed to load thread")
		c.deps.Alerts.AddError("Failed to load review message: " + err.Error())
		return
	}

	c.reviewMessage = th.ReviewMessage()
}

// SetReviewMessage sets the message sent with the next accept or reject.
func (c *Controller) SetReviewMessage(msg string) {
	c.reviewMessage = msg
}

// BeginAccept starts accepting the active suggestion.
func (c *Controller) BeginAccept() (ResolveRequest, error) {
	if err := c.canResolve(); err != nil {
		return ResolveRequest{}, err
	}

	c.deps.Analytics.RecordAccepted(c.opts.Category, c.active.ID)
	return c.begin(ResolveRequest{
		TargetID:      c.active.TargetID,
		SuggestionID:  c.active.ID,
		Action:        suggestion.ActionAccept,
		ReviewMessage: c.reviewMessage,
		CommitMessage: suggestion.CommitMessage(c.active.Change.ContentID, c.active.Change.StateName, c.opts.CommitMessageLimit),
	}), nil
}

// BeginReject starts rejecting the active suggestion.
func (c *Controller) BeginReject() (ResolveRequest, error) {
	if err := c.canResolve(); err != nil {
		return ResolveRequest{}, err
	}

	return c.reject(c.reviewMessage), nil
}

func (c *Controller) canResolve() error {
	switch {
	case c.state == StateClosed:
		return ErrSessionClosed
	case !c.opts.Reviewable:
		return ErrNotReviewable
	case c.state == StateResolving:
		return ErrResolutionInFlight
	}
	return nil
}

func (c *Controller) reject(msg string) ResolveRequest {
	c.deps.Analytics.RecordRejected(c.opts.Category, c.active.ID)
	return c.begin(ResolveRequest{
		TargetID:      c.active.TargetID,
		SuggestionID:  c.active.ID,
		Action:        suggestion.ActionReject,
		ReviewMessage: msg,
	})
}

func (c *Controller) begin(req ResolveRequest) ResolveRequest {
	c.state = StateResolving
	c.inFlight = &req

	c.logger.Info().
		Str("suggestion_id", req.SuggestionID).
		Str("action", string(req.Action)).
		Msg("resolving suggestion")

	return req
}

// Complete applies the outcome of the request in flight. A failed accept is
// turned into a rejection, returned as the next request to perform.
func (c *Controller) Complete(o Outcome) (Next, error) {
	if c.state == StateClosed {
		return Next{}, ErrSessionClosed
	}
	if c.inFlight == nil || *c.inFlight != o.Request {
		return Next{}, ErrUnexpectedOutcome
	}
	c.inFlight = nil

	if o.Err != nil {
		return c.fail(o), nil
	}

	c.logger.Info().
		Str("suggestion_id", o.Request.SuggestionID).
		Str("action", string(o.Request.Action)).
		Msg("suggestion resolved")

	return c.advance(), nil
}

func (c *Controller) fail(o Outcome) Next {
	c.logger.Warn().
		Err(o.Err).
		Str("suggestion_id", o.Request.SuggestionID).
		Str("action", string(o.Request.Action)).
		Msg("resolution failed")

	if o.Request.Action == suggestion.ActionAccept {
		req := c.reject(InvalidSuggestionMessage)
		c.deps.Alerts.ClearWarnings()
		c.deps.Alerts.AddWarning(InvalidSuggestionMessage + ": " + o.Err.Error())
		return Next{Resolve: &req}
	}

	c.state = StateViewing
	c.deps.Alerts.AddError("Failed to resolve suggestion: " + o.Err.Error())
	return Next{}
}

func (c *Controller) advance() Next {
	c.resolved = append(c.resolved, c.active.ID)

	if c.lastToReview {
		c.close()
		return Next{}
	}

	next, err := c.queue.Pop()
	if err != nil {
		c.close()
		return Next{}
	}

	c.active = next
	c.lastToReview = c.queue.IsEmpty()
	c.translationHTML = ""
	c.contentHTML = ""
	c.reviewMessage = ""
	c.state = StateViewing

	return c.Init()
}

// Cancel closes the session without resolving the active suggestion. A
// request still in flight is abandoned and its outcome is dropped.
func (c *Controller) Cancel() []string {
	if c.state != StateClosed {
		if c.inFlight != nil {
			c.logger.Warn().Str("suggestion_id", c.inFlight.SuggestionID).Msg("closing with resolution in flight")
			c.inFlight = nil
		}
		c.close()
	}
	return c.ResolvedSuggestionIDs()
}

func (c *Controller) close() {
	c.state = StateClosed
	c.logger.Info().Int("resolved", len(c.resolved)).Msg("review session closed")

	if c.deps.Closer != nil {
		c.deps.Closer.Close(c.ResolvedSuggestionIDs())
	}
}

// Run performs next and every follow-up inline until nothing is pending.
func (c *Controller) Run(ctx context.Context, next Next) error {
	for !next.IsZero() {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case next.FetchThreadID != "":
			id := next.FetchThreadID
			th, err := c.deps.Threads.FetchThread(logging.WithSuggestionID(ctx, id), id)
			c.ApplyThread(id, th, err)
			next = Next{}
		case next.Resolve != nil:
			req := *next.Resolve
			err := c.deps.Resolver.Resolve(logging.WithSuggestionID(ctx, req.SuggestionID), req)

			var cerr error
			next, cerr = c.Complete(Outcome{Request: req, Err: err})
			if cerr != nil {
				return cerr
			}
		}
	}
	return nil
}

// Start runs Init and any work it requires.
func (c *Controller) Start(ctx context.Context) error {
	return c.Run(ctx, c.Init())
}

// Accept accepts the active suggestion and blocks until the session has
// moved on.
func (c *Controller) Accept(ctx context.Context) error {
	req, err := c.BeginAccept()
	if err != nil {
		return err
	}
	return c.Run(ctx, Next{Resolve: &req})
}

// Reject rejects the active suggestion and blocks until the session has
// moved on.
func (c *Controller) Reject(ctx context.Context) error {
	req, err := c.BeginReject()
	if err != nil {
		return err
	}
	return c.Run(ctx, Next{Resolve: &req})
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string { return c.opts.SessionID }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Reviewable reports whether accept and reject are available.
func (c *Controller) Reviewable() bool { return c.opts.Reviewable }

// Subheading returns the heading shown above the suggestion.
func (c *Controller) Subheading() string { return c.opts.Subheading }

// Active returns the suggestion being reviewed.
func (c *Controller) Active() suggestion.Suggestion { return c.active }

// ActiveSuggestionID returns the id of the suggestion being reviewed.
func (c *Controller) ActiveSuggestionID() string { return c.active.ID }

// ReviewMessage returns the current review message.
func (c *Controller) ReviewMessage() string { return c.reviewMessage }

// TranslationHTML returns the displayed translation.
func (c *Controller) TranslationHTML() string { return c.translationHTML }

// ContentHTML returns the displayed original content.
func (c *Controller) ContentHTML() string { return c.contentHTML }

// Resolving reports whether a resolution is in flight.
func (c *Controller) Resolving() bool { return c.state == StateResolving }

// LastSuggestionToReview reports whether the remaining queue was empty when
// the active suggestion was activated.
func (c *Controller) LastSuggestionToReview() bool { return c.lastToReview }

// Remaining returns the number of suggestions after the active one.
func (c *Controller) Remaining() int { return c.queue.Len() }

// ResolvedSuggestionIDs returns a copy of the ids resolved so far, in order.
func (c *Controller) ResolvedSuggestionIDs() []string {
	out := make([]string, len(c.resolved))
	copy(out, c.resolved)
	return out
}
