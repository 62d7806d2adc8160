package styles

import (
	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// FormTheme returns a huh theme built from the active palette. huh renders
// with lipgloss v1, so palette colors cross over as hex strings.
func FormTheme() *huh.Theme {
	primary := lipglossv1.Color(ColorHex(ColorPrimary))
	muted := lipglossv1.Color(ColorHex(ColorMuted))
	success := lipglossv1.Color(ColorHex(ColorSuccess))
	failure := lipglossv1.Color(ColorHex(ColorError))

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(primary)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(success)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(failure)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipglossv1.HiddenBorder())

	return t
}
