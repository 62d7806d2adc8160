package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/styles"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 24
	notifyModalMargin    = 4
	notifyModalChrome    = 6 // title + divider + help + spacing
)

// NotificationModal displays a scrollable history of review alerts. It opens
// on the alerts of the current review session and can widen to every session.
type NotificationModal struct {
	store       notify.Store
	sessionID   string
	allSessions bool
	viewport    viewport.Model
}

// NewNotificationModal creates a modal showing the alerts raised during
// sessionID. An empty sessionID shows every alert.
func NewNotificationModal(store notify.Store, sessionID string, width, height int) *NotificationModal {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := max(min(height-notifyModalMargin, notifyModalMaxHeight), notifyModalChrome+1)

	m := &NotificationModal{
		store:       store,
		sessionID:   sessionID,
		allSessions: sessionID == "",
		viewport: viewport.New(
			viewport.WithWidth(modalWidth-4), // account for modal padding
			viewport.WithHeight(modalHeight-notifyModalChrome),
		),
	}

	m.refreshContent()
	return m
}

func (m *NotificationModal) load(ctx context.Context) ([]notify.Notification, error) {
	if m.allSessions {
		return m.store.List(ctx)
	}
	return m.store.ListSession(ctx, m.sessionID)
}

func (m *NotificationModal) refreshContent() {
	if m.store == nil {
		m.viewport.SetContent(styles.MutedStyle.Render("No notifications"))
		return
	}

	alerts, err := m.load(context.Background())
	if err != nil {
		log.Error().Err(err).Str("review_session_id", m.sessionID).Msg("failed to load notification history")
		m.viewport.SetContent(styles.FailedStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	}

	if len(alerts) == 0 {
		m.viewport.SetContent(styles.MutedStyle.Render("No notifications"))
		return
	}

	var b strings.Builder
	for i, n := range alerts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatNotification(n))
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func (m *NotificationModal) formatNotification(n notify.Notification) string {
	ts := styles.MutedStyle.Render(n.CreatedAt.Format("15:04:05"))

	var icon string
	var msgStyle lipgloss.Style
	switch n.Level {
	case notify.LevelError:
		icon = styles.IconNotifyError
		msgStyle = styles.FailedStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		msgStyle = styles.RejectedStyle
	default:
		icon = styles.IconNotifyInfo
		msgStyle = styles.ModalTitleStyle
	}

	line := fmt.Sprintf("%s %s %s", ts, icon, msgStyle.Render(n.Message))
	if n.SuggestionID != "" {
		line += " " + styles.MutedStyle.Render("["+n.SuggestionID+"]")
	}
	if m.allSessions && n.SessionID != "" && n.SessionID != m.sessionID {
		line += " " + styles.MutedStyle.Render("(session "+shortID(n.SessionID)+")")
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ToggleScope switches between this session's alerts and every alert.
func (m *NotificationModal) ToggleScope() {
	if m.sessionID == "" {
		return
	}
	m.allSessions = !m.allSessions
	m.refreshContent()
}

// AllSessions reports whether alerts from every session are shown.
func (m *NotificationModal) AllSessions() bool {
	return m.allSessions
}

// ScrollUp scrolls the viewport up.
func (m *NotificationModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *NotificationModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Clear deletes all notifications and refreshes the view.
func (m *NotificationModal) Clear() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(context.Background()); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// Overlay renders the notification modal centered over background.
func (m *NotificationModal) Overlay(background string, width, height int) string {
	modalWidth := calcNotificationModalWidth(width)

	title := "Notifications · this session"
	if m.allSessions {
		title = "Notifications · all sessions"
	}
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		title += styles.MutedStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [s] session/all  [D] clear all  [esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(modalContent)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}
