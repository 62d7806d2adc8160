package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/tsreview/internal/core/config"
	"github.com/hay-kot/tsreview/internal/core/eventbus"
	"github.com/hay-kot/tsreview/internal/core/logging"
	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/data/platform"
	"github.com/hay-kot/tsreview/internal/printer"
	"github.com/hay-kot/tsreview/internal/tui"
	"github.com/hay-kot/tsreview/pkg/iojson"
)

const plainRenderWidth = 80

type ReviewCmd struct {
	flags *Flags

	// Command-specific flags
	id         string
	patterns   []string
	root       string
	stdin      bool
	readOnly   bool
	plain      bool
	jsonOut    bool
	subheading string

	queueFile iojson.FileReader[json.RawMessage]
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	fileFlag := cmd.queueFile.Flag()
	fileFlag.Usage = "path to a queue JSON file (overrides --queue)"

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review a queue of translation suggestions",
		UsageText: "tsreview review [options] --id <suggestion-id>",
		Description: `Opens a review session positioned on the given suggestion.

Suggestions are loaded from queue files matched by --queue (doublestar
globs relative to --root), from a single --file, or from stdin with --stdin.
Accepting or rejecting a suggestion moves on to the most recently queued
remaining suggestion until the queue is empty.

With --read-only the suggestion is shown without accept or reject actions;
rejected suggestions load the reviewer's message from their thread.

The full-screen review modal is used when stdout is a terminal. Use --plain
to force line-oriented prompts.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "id",
				Usage:       "suggestion to open the session on",
				Required:    true,
				Destination: &cmd.id,
			},
			&cli.StringSliceFlag{
				Name:        "queue",
				Aliases:     []string{"q"},
				Usage:       "glob pattern for queue files (defaults to queue.patterns)",
				Destination: &cmd.patterns,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory queue patterns are relative to (defaults to queue.root)",
				Destination: &cmd.root,
			},
			fileFlag,
			&cli.BoolFlag{
				Name:        "stdin",
				Usage:       "read the queue JSON from stdin",
				Destination: &cmd.stdin,
			},
			&cli.BoolFlag{
				Name:        "read-only",
				Usage:       "show the suggestion without accept or reject actions",
				Destination: &cmd.readOnly,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "use line-oriented prompts instead of the full-screen modal",
				Destination: &cmd.plain,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the session summary as JSON",
				Destination: &cmd.jsonOut,
			},
			&cli.StringFlag{
				Name:        "subheading",
				Usage:       "heading shown above the suggestion (defaults to review.subheading)",
				Destination: &cmd.subheading,
			},
		},
		Action: cmd.run,
	})

	return app
}

// reviewSummary is printed once the session closes.
type reviewSummary struct {
	SessionID   string   `json:"session_id"`
	ResolvedIDs []string `json:"resolved_ids"`
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg := cmd.flags.Config

	items, err := cmd.loadQueue(c.IsSet("file") || cmd.stdin)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	ctx = logging.WithReviewSessionID(ctx, sessionID)
	bus := cmd.flags.Bus

	client, err := platform.New(platform.Options{
		BaseURL:   cfg.Platform.BaseURL,
		Timeout:   cfg.Platform.Timeout,
		CSRFToken: cfg.Platform.CSRFToken,
		Cookie:    cfg.Platform.Cookie,
	})
	if err != nil {
		return fmt.Errorf("platform client: %w", err)
	}
	resolver := eventbus.NewPublishingResolver(bus, sessionID, client)

	publishAlert := func(n notify.Notification) {
		bus.PublishNotificationPublished(eventbus.NotificationPayload(n))
	}

	// alerts are raised about whichever suggestion is on screen
	var ctrl *reviewqueue.Controller
	subject := func() notify.Subject {
		s := notify.Subject{SessionID: sessionID}
		if ctrl != nil {
			s.SuggestionID = ctrl.ActiveSuggestionID()
		}
		return s
	}

	interactive := !cmd.plain && term.IsTerminal(int(os.Stdout.Fd()))

	var (
		toasts *tui.ToastController
		alerts reviewqueue.AlertPresenter
	)
	if interactive {
		toasts = tui.NewToastController()
		toasts.About(subject)
		toasts.OnPush(publishAlert)
		alerts = toasts
	} else {
		alerts = tui.PrinterAlerts{P: p, OnAlert: publishAlert, Subject: subject}
	}

	subheading := cmd.subheading
	if subheading == "" {
		subheading = cfg.Review.Subheading
	}

	ctrl, err = reviewqueue.New(reviewqueue.Options{
		SessionID:           sessionID,
		InitialSuggestionID: cmd.id,
		Reviewable:          !cmd.readOnly,
		Subheading:          subheading,
		Suggestions:         items,
		Category:            cfg.Review.Category,
		CommitMessageLimit:  cfg.Review.CommitMessageLimit,
	}, reviewqueue.Deps{
		Alerts:    alerts,
		Analytics: eventbus.NewAnalytics(bus, sessionID),
		Resolver:  resolver,
		Threads:   client,
		Closer: reviewqueue.CloserFunc(func(ids []string) {
			bus.PublishReviewClosed(eventbus.ReviewClosedPayload{SessionID: sessionID, ResolvedIDs: ids})
		}),
	})
	if err != nil {
		return fmt.Errorf("open review: %w", err)
	}

	bus.PublishReviewOpened(eventbus.ReviewOpenedPayload{
		SessionID:           sessionID,
		InitialSuggestionID: cmd.id,
		Reviewable:          !cmd.readOnly,
		Subheading:          subheading,
		QueueSize:           len(items),
	})

	log.Info().
		Str("session_id", sessionID).
		Str("initial", cmd.id).
		Int("queue_size", len(items)).
		Bool("interactive", interactive).
		Msg("starting review")

	if interactive {
		err = cmd.runTUI(ctx, ctrl, resolver, client, toasts)
	} else {
		err = cmd.runPlain(ctx, ctrl, p)
	}
	if err != nil {
		// closes the session so history records it
		ctrl.Cancel()
		return err
	}

	summary := reviewSummary{SessionID: sessionID, ResolvedIDs: ctrl.ResolvedSuggestionIDs()}
	if cmd.jsonOut {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, summary)
	}

	switch n := len(summary.ResolvedIDs); n {
	case 0:
		p.Infof("No suggestions resolved")
	default:
		p.Successf("Resolved %d suggestion(s)", n)
		for _, id := range summary.ResolvedIDs {
			p.Printf("  %s", id)
		}
	}
	return nil
}

func (cmd *ReviewCmd) loadQueue(fromFile bool) ([]suggestion.Suggestion, error) {
	if fromFile {
		raw, err := cmd.queueFile.Read()
		if err != nil {
			return nil, fmt.Errorf("read queue: %w", err)
		}
		return suggestion.Decode(raw)
	}

	patterns := cmd.patterns
	if len(patterns) == 0 {
		patterns = cmd.flags.Config.Queue.Patterns
	}

	root := cmd.root
	if root == "" {
		root = cmd.flags.Config.Queue.Root
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}

	items, err := suggestion.LoadFiles(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	return items, nil
}

func (cmd *ReviewCmd) runTUI(
	ctx context.Context,
	ctrl *reviewqueue.Controller,
	resolver reviewqueue.SuggestionResolver,
	threads reviewqueue.ThreadMessageFetcher,
	toasts *tui.ToastController,
) error {
	renderer, err := tui.NewContentRenderer(cmd.flags.Config.TUI.Theme, plainRenderWidth)
	if err != nil {
		return fmt.Errorf("content renderer: %w", err)
	}

	model := tui.New(ctx, ctrl, tui.ModelOptions{
		Resolver:      resolver,
		Threads:       threads,
		Toasts:        toasts,
		Renderer:      renderer,
		Notifications: cmd.flags.Notifications,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cmd.stdin {
		// stdin carried the queue, read keys from the terminal instead
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer func() { _ = tty.Close() }()
		opts = append(opts, tea.WithInput(tty))
	}

	prog := tea.NewProgram(model, opts...)
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run review: %w", err)
	}

	// the program can exit without a key press, e.g. on context cancellation
	if ctrl.State() != reviewqueue.StateClosed {
		ctrl.Cancel()
	}
	return nil
}

func (cmd *ReviewCmd) runPlain(ctx context.Context, ctrl *reviewqueue.Controller, p *printer.Printer) error {
	width := plainRenderWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	theme := cmd.flags.Config.TUI.Theme
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		theme = config.ThemeNoTTY
	}

	renderer, err := tui.NewContentRenderer(theme, width)
	if err != nil {
		return fmt.Errorf("content renderer: %w", err)
	}

	return tui.RunPlain(ctx, ctrl, p, renderer, tui.HuhPrompter{})
}
