package tui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/tsreview/internal/core/styles"
)

// ConfirmModal asks the reviewer to confirm a destructive action, such as
// leaving while a resolution is still in flight.
type ConfirmModal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool
}

// NewConfirmModal creates a visible modal with the cancel button selected.
func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{
		title:   title,
		message: message,
		visible: true,
	}
}

// ToggleSelection switches the selected button.
func (m *ConfirmModal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m ConfirmModal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m ConfirmModal) Visible() bool {
	return m.visible
}

// Overlay renders the modal as a layer centered over background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	confirmBtn := styles.ModalButtonStyle.Render("Leave")
	cancelBtn := styles.ModalButtonSelectedStyle.Render("Stay")
	if m.confirmSelected {
		confirmBtn = styles.ModalButtonSelectedStyle.Render("Leave")
		cancelBtn = styles.ModalButtonStyle.Render("Stay")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
	)

	modal := styles.ModalStyle.Render(content)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)
	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
