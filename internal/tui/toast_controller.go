package tui

import (
	"time"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
)

const (
	defaultToastTTL   = 5 * time.Second
	alertToastTTL     = 10 * time.Second
	defaultMaxToasts  = 5
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 50
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
}

// ToastController manages the lifecycle of active toast notifications.
// It handles push, eviction, TTL countdown, and dismissal, and doubles as the
// review session's alert presenter.
type ToastController struct {
	toasts  []toast
	ticking bool
	onPush  func(notify.Notification)
	subject func() notify.Subject
	now     func() time.Time
}

var _ reviewqueue.AlertPresenter = (*ToastController)(nil)

func NewToastController() *ToastController {
	return &ToastController{now: time.Now}
}

// OnPush registers fn to be called for every pushed notification. Used to
// mirror alerts onto the event bus.
func (c *ToastController) OnPush(fn func(notify.Notification)) {
	c.onPush = fn
}

// About sets the source of the review session and suggestion each alert is
// tagged with. fn is called on every push, so the tag follows the suggestion
// on screen.
func (c *ToastController) About(fn func() notify.Subject) {
	c.subject = fn
}

// Push adds a notification to the toast stack. If the stack exceeds
// defaultMaxToasts, the oldest toast is evicted.
func (c *ToastController) Push(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}
	if c.subject != nil {
		n = n.About(c.subject())
	}

	ttl := defaultToastTTL
	if n.Level != notify.LevelInfo {
		ttl = alertToastTTL
	}

	c.toasts = append(c.toasts, toast{
		notification: n,
		remaining:    ttl,
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}

	if c.onPush != nil {
		c.onPush(n)
	}
}

// AddWarning pushes a warning toast.
func (c *ToastController) AddWarning(msg string) {
	c.Push(notify.Notification{Level: notify.LevelWarning, Message: msg})
}

// AddError pushes an error toast.
func (c *ToastController) AddError(msg string) {
	c.Push(notify.Notification{Level: notify.LevelError, Message: msg})
}

// ClearWarnings removes every warning toast. Errors and info toasts stay.
func (c *ToastController) ClearWarnings() {
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.notification.Level != notify.LevelWarning {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
}

// Tick decrements the remaining TTL on all toasts by d and removes
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest (bottom-most) toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
