// Package tuitest provides helpers for driving Bubble Tea models and
// asserting on what they render.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// Plain removes ANSI styling and trailing whitespace so a rendered view can
// be compared as text.
func Plain(view string) string {
	return strings.TrimRight(strings.Join(Rows(view), "\n"), "\n")
}

// Rows splits a rendered view into unstyled rows with trailing spaces
// removed. Blank rows are kept so row indexes match screen lines.
func Rows(view string) []string {
	rows := strings.Split(ansi.Strip(view), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return rows
}

// Screen returns a width x height background filled with ch, for checking
// what an overlay leaves visible.
func Screen(ch string, width, height int) string {
	row := strings.Repeat(ch, width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// Key creates a press of a printable key. The text is set so text inputs
// receive the character.
func Key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: []rune(s)[0], Text: s})
}

// Special creates a press of a non-printable key such as tea.KeyEscape.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
