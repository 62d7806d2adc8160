package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
	"github.com/hay-kot/tsreview/internal/core/styles"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/printer"
)

// PlainAction is a reviewer's choice in the line-oriented review flow.
type PlainAction string

const (
	PlainAccept PlainAction = "accept"
	PlainReject PlainAction = "reject"
	PlainQuit   PlainAction = "quit"
)

// Prompter asks the reviewer for decisions when no full-screen TUI is used.
type Prompter interface {
	Action(s suggestion.Suggestion, last bool) (PlainAction, error)
	ReviewMessage(action PlainAction) (string, error)
}

// HuhPrompter prompts with huh forms.
type HuhPrompter struct{}

func (HuhPrompter) Action(s suggestion.Suggestion, last bool) (PlainAction, error) {
	action := PlainAccept

	desc := "Suggestion " + s.ID
	if last {
		desc += " (last suggestion)"
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[PlainAction]().
				Title("Resolve suggestion").
				Description(desc).
				Options(
					huh.NewOption("Accept", PlainAccept),
					huh.NewOption("Reject", PlainReject),
					huh.NewOption("Quit", PlainQuit),
				).
				Value(&action),
		),
	).WithTheme(styles.FormTheme()).Run()

	return action, err
}

func (HuhPrompter) ReviewMessage(action PlainAction) (string, error) {
	var msg string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Review message").
				Description(fmt.Sprintf("Sent with the %s (optional)", action)).
				Value(&msg),
		),
	).WithTheme(styles.FormTheme()).Run()

	return msg, err
}

// PrinterAlerts presents controller alerts as printed lines. OnAlert, when
// set, is called with every alert after it is printed. Subject, when set,
// tags each alert with the session and suggestion it was raised for.
type PrinterAlerts struct {
	P       *printer.Printer
	OnAlert func(notify.Notification)
	Subject func() notify.Subject
}

var _ reviewqueue.AlertPresenter = PrinterAlerts{}

func (PrinterAlerts) ClearWarnings() {}

func (a PrinterAlerts) AddWarning(msg string) {
	a.P.Warnf("%s", msg)
	a.forward(notify.LevelWarning, msg)
}

func (a PrinterAlerts) AddError(msg string) {
	a.P.Errorf("%s", msg)
	a.forward(notify.LevelError, msg)
}

func (a PrinterAlerts) forward(level notify.Level, msg string) {
	if a.OnAlert == nil {
		return
	}
	n := notify.Notification{Level: level, Message: msg, CreatedAt: time.Now()}
	if a.Subject != nil {
		n = n.About(a.Subject())
	}
	a.OnAlert(n)
}

// RunPlain drives a review session with printed output and prompts. It returns
// once the session is closed. Aborting a prompt cancels the session.
func RunPlain(ctx context.Context, ctrl *reviewqueue.Controller, p *printer.Printer, renderer *ContentRenderer, prompter Prompter) error {
	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	for ctrl.State() != reviewqueue.StateClosed {
		printSuggestion(p, ctrl, renderer)

		if !ctrl.Reviewable() {
			ctrl.Cancel()
			return nil
		}

		action, err := prompter.Action(ctrl.Active(), ctrl.LastSuggestionToReview())
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctrl.Cancel()
				return nil
			}
			return fmt.Errorf("prompt: %w", err)
		}

		if action == PlainQuit {
			ctrl.Cancel()
			return nil
		}

		msg, err := prompter.ReviewMessage(action)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctrl.Cancel()
				return nil
			}
			return fmt.Errorf("prompt: %w", err)
		}
		ctrl.SetReviewMessage(msg)

		id := ctrl.ActiveSuggestionID()
		if action == PlainAccept {
			err = ctrl.Accept(ctx)
		} else {
			err = ctrl.Reject(ctx)
		}
		if err != nil {
			return err
		}

		if ctrl.ActiveSuggestionID() != id || ctrl.State() == reviewqueue.StateClosed {
			p.Successf("resolved %s", id)
		}
	}

	return nil
}

func printSuggestion(p *printer.Printer, ctrl *reviewqueue.Controller, renderer *ContentRenderer) {
	render := PlainText
	if renderer != nil {
		render = renderer.Render
	}

	active := ctrl.Active()
	title := active.ID
	if sub := ctrl.Subheading(); sub != "" {
		title = sub + " · " + active.ID
	}

	p.Section(title)
	if ctrl.Reviewable() {
		if ctrl.LastSuggestionToReview() {
			p.Infof("last suggestion")
		} else {
			p.Infof("%d remaining", ctrl.Remaining())
		}
	} else {
		p.Infof("status: %s", active.Status)
	}

	p.Printf("%s\n%s", styles.SectionLabelStyle.Render("Original"), render(ctrl.ContentHTML())+"\n")
	p.Printf("%s\n%s", styles.SectionLabelStyle.Render("Translation"), render(ctrl.TranslationHTML())+"\n")

	if !ctrl.Reviewable() && active.IsRejected() {
		msg := ctrl.ReviewMessage()
		if msg == "" {
			msg = "(none)"
		}
		p.Printf("%s\n%s", styles.SectionLabelStyle.Render("Review message"), styles.ReviewMessageStyle.Render(msg))
	}
}
