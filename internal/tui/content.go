package tui

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hay-kot/tsreview/internal/core/config"
	"github.com/hay-kot/tsreview/internal/core/styles"
)

var (
	blockBreak = regexp.MustCompile(`(?i)</(p|div|li|h[1-6])>|<br\s*/?>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	stripTags  = bluemonday.StrictPolicy()
)

// PlainText converts suggestion HTML into readable text. Block-level closing
// tags become paragraph breaks and every other tag is dropped.
func PlainText(s string) string {
	s = blockBreak.ReplaceAllString(s, "\n\n")
	s = stripTags.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ContentRenderer renders suggestion HTML for the terminal.
type ContentRenderer struct {
	theme string
	width int
	r     *glamour.TermRenderer
}

// NewContentRenderer creates a renderer for the given glamour theme. The
// "auto" theme derives colors from the active palette.
func NewContentRenderer(theme string, width int) (*ContentRenderer, error) {
	c := &ContentRenderer{theme: theme}
	if err := c.SetWidth(width); err != nil {
		return nil, err
	}
	return c, nil
}

// SetWidth rebuilds the renderer for a new wrap width.
func (c *ContentRenderer) SetWidth(width int) error {
	if width < 20 {
		width = 20
	}
	if c.r != nil && width == c.width {
		return nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if c.theme == config.ThemeAuto || c.theme == "" {
		opts = append(opts, glamour.WithStyles(styles.GlamourStyle()))
	} else {
		opts = append(opts, glamour.WithStandardStyle(c.theme))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return err
	}
	c.r = r
	c.width = width
	return nil
}

// Render converts HTML to text and renders it. Rendering failures fall back
// to the plain text.
func (c *ContentRenderer) Render(htmlContent string) string {
	text := PlainText(htmlContent)
	if text == "" {
		return styles.MutedStyle.Render("(empty)")
	}

	out, err := c.r.Render(escapeMarkdown(text))
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
)

// escapeMarkdown keeps translated text literal. Suggestions are prose, never
// markdown.
func escapeMarkdown(s string) string {
	return markdownSpecial.Replace(s)
}
