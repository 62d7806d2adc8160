package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/printer"
	"github.com/hay-kot/tsreview/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags

	jsonOut bool
	session string
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags) *NotificationsCmd {
	return &NotificationsCmd{flags: flags}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "notifications",
		Usage: "List or clear stored notifications",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOut,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "only show alerts raised during this review session",
				Destination: &cmd.session,
			},
		},
		Action: cmd.list,
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete all stored notifications",
				Action: cmd.clear,
			},
		},
	})

	return app
}

type notificationJSON struct {
	ID           int64        `json:"id"`
	Level        notify.Level `json:"level"`
	Message      string       `json:"message"`
	SessionID    string       `json:"session_id,omitempty"`
	SuggestionID string       `json:"suggestion_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (cmd *NotificationsCmd) list(ctx context.Context, c *cli.Command) error {
	var (
		items []notify.Notification
		err   error
	)
	if cmd.session != "" {
		items, err = cmd.flags.Notifications.ListSession(ctx, cmd.session)
	} else {
		items, err = cmd.flags.Notifications.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	if cmd.jsonOut {
		out := make([]notificationJSON, 0, len(items))
		for _, n := range items {
			out = append(out, notificationJSON(n))
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	p := printer.Ctx(ctx)
	if len(items) == 0 {
		p.Infof("No notifications")
		return nil
	}

	for _, n := range items {
		line := n.CreatedAt.Local().Format(time.DateTime) + "  " + n.Message
		if n.SuggestionID != "" {
			line += "  [" + n.SuggestionID + "]"
		}
		if cmd.session == "" && n.SessionID != "" {
			line += "  session=" + n.SessionID
		}

		switch n.Level {
		case notify.LevelError:
			p.Errorf("%s", line)
		case notify.LevelWarning:
			p.Warnf("%s", line)
		default:
			p.Infof("%s", line)
		}
	}
	return nil
}

func (cmd *NotificationsCmd) clear(ctx context.Context, _ *cli.Command) error {
	if err := cmd.flags.Notifications.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	printer.Ctx(ctx).Successf("Notifications cleared")
	return nil
}
