package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tsreview/internal/core/history"
	"github.com/hay-kot/tsreview/internal/core/styles"
	"github.com/hay-kot/tsreview/internal/printer"
	"github.com/hay-kot/tsreview/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags

	limit    int
	jsonOut  bool
	sessions bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show recent resolutions and review sessions",
		UsageText: "tsreview history [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of entries (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "sessions",
				Usage:       "list review sessions instead of resolutions",
				Destination: &cmd.sessions,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.sessions {
		return cmd.listSessions(ctx, c)
	}

	resolutions, err := cmd.flags.History.ListResolutions(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list resolutions: %w", err)
	}

	if cmd.jsonOut {
		if resolutions == nil {
			resolutions = []history.Resolution{}
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, resolutions)
	}

	p := printer.Ctx(ctx)
	if len(resolutions) == 0 {
		p.Infof("No resolutions recorded")
		return nil
	}

	for _, r := range resolutions {
		p.Printf("%s", formatResolution(r))
		if r.ReviewMessage != "" {
			p.Printf("    %s", styles.MutedStyle.Render(r.ReviewMessage))
		}
	}
	return nil
}

func (cmd *HistoryCmd) listSessions(ctx context.Context, c *cli.Command) error {
	sessions, err := cmd.flags.History.ListSessions(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if cmd.jsonOut {
		if sessions == nil {
			sessions = []history.Session{}
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, sessions)
	}

	p := printer.Ctx(ctx)
	if len(sessions) == 0 {
		p.Infof("No review sessions recorded")
		return nil
	}

	for _, s := range sessions {
		p.Printf("%s", formatSession(s))
	}
	return nil
}

func formatResolution(r history.Resolution) string {
	var label string
	switch {
	case r.Failed():
		label = styles.FailedStyle.Render("failed  ")
	case r.Action == "accept":
		label = styles.AcceptedStyle.Render(styles.IconAccept + " accept")
	default:
		label = styles.RejectedStyle.Render(styles.IconReject + " reject")
	}

	line := fmt.Sprintf("%s  %s  %s  %s",
		styles.MutedStyle.Render(r.ResolvedAt.Local().Format(time.DateTime)),
		label,
		r.SuggestionID,
		styles.MutedStyle.Render(r.TargetID),
	)
	if r.Failed() {
		line += "  " + styles.FailedStyle.Render(r.Error)
	}
	return line
}

func formatSession(s history.Session) string {
	mode := "review"
	if !s.Reviewable {
		mode = "read-only"
	}

	status := styles.MutedStyle.Render("open")
	if s.Closed() {
		status = styles.MutedStyle.Render("closed " + s.ClosedAt.Local().Format(time.DateTime))
	}

	line := fmt.Sprintf("%s  %s  %-9s  %d queued  start %s  %s",
		styles.MutedStyle.Render(s.OpenedAt.Local().Format(time.DateTime)),
		s.ID,
		mode,
		s.QueueSize,
		s.InitialSuggestionID,
		status,
	)
	if s.Subheading != "" {
		line += "  " + s.Subheading
	}
	return line
}
