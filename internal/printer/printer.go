// Package printer writes styled, human-facing CLI output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/tsreview/internal/core/styles"
)

type ctxKey struct{}

// Printer writes leveled messages to an output stream.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.out }

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.CommandHeaderStyle, styles.IconNotifyInfo, format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.AcceptedStyle, styles.IconAccept, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.RejectedStyle, styles.IconNotifyWarning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.FailedStyle, styles.IconNotifyError, format, args...)
}

// Section prints a bold heading followed by a divider.
func (p *Printer) Section(title string) {
	_, _ = lipgloss.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
	_, _ = lipgloss.Fprintln(p.out, styles.DividerStyle.Render(divider(lipgloss.Width(title))))
}

// line writes through lipgloss so colors are downsampled to what out supports.
func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	_, _ = lipgloss.Fprintln(p.out, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func divider(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = '─'
	}
	return string(b)
}
