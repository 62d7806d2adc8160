package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/tsreview/internal/core/logging"
	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
	"github.com/hay-kot/tsreview/internal/core/styles"
)

const (
	defaultWidth   = 100
	defaultHeight  = 32
	modalWidthPct  = 80
	modalMinWidth  = 50
	modalChrome    = 18 // header, message box, help, borders and padding
	messageHeight  = 3
	minViewportRow = 3
)

// ModelOptions wires a Model to its collaborators. Resolver and Threads must
// be the same services the controller was built with.
type ModelOptions struct {
	Resolver      reviewqueue.SuggestionResolver
	Threads       reviewqueue.ThreadMessageFetcher
	Toasts        *ToastController
	Renderer      *ContentRenderer
	Notifications notify.Store
}

// Model is the Bubble Tea host for a review session. All controller calls
// happen in Update; network calls run as commands.
type Model struct {
	ctx  context.Context
	ctrl *reviewqueue.Controller
	opts ModelOptions
	log  zerolog.Logger

	toastView     *ToastView
	notifications *NotificationModal
	confirm       *ConfirmModal

	keys    KeyMap
	help    help.Model
	message textarea.Model
	content viewport.Model
	spinner spinner.Model

	width, height int
	shownID       string
	pending       reviewqueue.Next
	loadingThread bool
}

// New creates the review modal. It initializes the controller, so the model
// must be created exactly once per session.
func New(ctx context.Context, ctrl *reviewqueue.Controller, opts ModelOptions) Model {
	if opts.Toasts == nil {
		opts.Toasts = NewToastController()
	}

	ta := textarea.New()
	ta.Placeholder = "Review message (optional)"
	ta.ShowLineNumbers = false
	ta.SetHeight(messageHeight)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		log:       logging.ReviewSession("tui", ctrl.SessionID()),
		toastView: NewToastView(opts.Toasts),
		keys:      DefaultKeyMap(ctrl.Reviewable()),
		help:      help.New(),
		message:   ta,
		content:   viewport.New(),
		spinner:   s,
	}

	m.pending = ctrl.Init()
	m.loadingThread = m.pending.FetchThreadID != ""
	m.resize(defaultWidth, defaultHeight)
	m.syncActive()

	return m
}

// Init starts the work the controller asked for on creation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.pending), m.spinner.Tick, m.toastTick())
}

// Controller returns the session controller.
func (m Model) Controller() *reviewqueue.Controller { return m.ctrl }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.renderContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastTickMsg:
		m.opts.Toasts.Tick(toastTickInterval)
		if m.opts.Toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.opts.Toasts.SetTicking(false)
		return m, nil

	case resolveResultMsg:
		return m.handleResolveResult(msg)

	case threadResultMsg:
		m.loadingThread = false
		m.ctrl.ApplyThread(msg.id, msg.thread, msg.err)
		return m, m.toastTick()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.message.Focused() {
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleResolveResult(msg resolveResultMsg) (tea.Model, tea.Cmd) {
	next, err := m.ctrl.Complete(msg.outcome)
	if err != nil {
		if !errors.Is(err, reviewqueue.ErrSessionClosed) {
			m.log.Error().Err(err).Msg("unexpected resolution outcome")
		}
		return m, nil
	}

	if m.ctrl.State() == reviewqueue.StateClosed {
		return m, tea.Quit
	}

	m.syncActive()
	return m, tea.Batch(m.run(next), m.toastTick())
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.notifications != nil {
		return m.handleNotificationKey(msg)
	}

	if m.message.Focused() {
		switch {
		case msg.String() == "ctrl+c":
			return m.cancel()
		case key.Matches(msg, m.keys.Done):
			m.message.Blur()
			m.ctrl.SetReviewMessage(m.message.Value())
			return m, nil
		}
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Resolving() {
			modal := NewConfirmModal("Leave review?", "A suggestion is still being resolved.")
			m.confirm = &modal
			return m, nil
		}
		return m.cancel()
	case key.Matches(msg, m.keys.Accept):
		return m.resolve(m.ctrl.BeginAccept)
	case key.Matches(msg, m.keys.Reject):
		return m.resolve(m.ctrl.BeginReject)
	case key.Matches(msg, m.keys.Edit):
		if m.ctrl.Resolving() {
			return m, nil
		}
		return m, m.message.Focus()
	case key.Matches(msg, m.keys.ScrollUp):
		m.content.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.content.ScrollDown(1)
	case key.Matches(msg, m.keys.Notifications):
		if m.opts.Notifications != nil {
			m.notifications = NewNotificationModal(m.opts.Notifications, m.ctrl.SessionID(), m.width, m.height)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleNotificationKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "n":
		m.notifications = nil
	case "s":
		m.notifications.ToggleScope()
	case "j", "down":
		m.notifications.ScrollDown()
	case "k", "up":
		m.notifications.ScrollUp()
	case "D":
		if err := m.notifications.Clear(); err != nil {
			m.opts.Toasts.AddError(fmt.Sprintf("failed to clear notifications: %v", err))
			return m, m.toastTick()
		}
	case "ctrl+c":
		return m.cancel()
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "h", "l", "tab":
		m.confirm.ToggleSelection()
	case "enter":
		leave := m.confirm.ConfirmSelected()
		m.confirm = nil
		if leave {
			return m.cancel()
		}
	case "esc":
		m.confirm = nil
	case "ctrl+c":
		return m.cancel()
	}
	return m, nil
}

func (m Model) resolve(begin func() (reviewqueue.ResolveRequest, error)) (tea.Model, tea.Cmd) {
	m.ctrl.SetReviewMessage(m.message.Value())

	req, err := begin()
	switch {
	case errors.Is(err, reviewqueue.ErrResolutionInFlight):
		return m, nil
	case err != nil:
		m.log.Debug().Err(err).Msg("resolution refused")
		return m, nil
	}

	return m, m.run(reviewqueue.Next{Resolve: &req})
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.ctrl.Cancel()
	return m, tea.Quit
}

// run turns a controller request into a command.
func (m Model) run(next reviewqueue.Next) tea.Cmd {
	switch {
	case next.Resolve != nil:
		req := *next.Resolve
		resolver := m.opts.Resolver
		ctx := logging.WithSuggestionID(m.ctx, req.SuggestionID)
		return func() tea.Msg {
			err := resolver.Resolve(ctx, req)
			return resolveResultMsg{outcome: reviewqueue.Outcome{Request: req, Err: err}}
		}
	case next.FetchThreadID != "":
		id := next.FetchThreadID
		threads := m.opts.Threads
		ctx := logging.WithSuggestionID(m.ctx, id)
		return func() tea.Msg {
			th, err := threads.FetchThread(ctx, id)
			return threadResultMsg{id: id, thread: th, err: err}
		}
	}
	return nil
}

// toastTick starts the toast timer when toasts are showing and it is idle.
func (m Model) toastTick() tea.Cmd {
	if !m.opts.Toasts.HasToasts() || m.opts.Toasts.Ticking() {
		return nil
	}
	m.opts.Toasts.SetTicking(true)
	return scheduleToastTick()
}

// syncActive refreshes display state when the active suggestion changed.
func (m *Model) syncActive() {
	if m.ctrl.ActiveSuggestionID() == m.shownID {
		return
	}
	m.shownID = m.ctrl.ActiveSuggestionID()
	m.message.Reset()
	m.message.SetValue(m.ctrl.ReviewMessage())
	m.message.Blur()
	m.renderContent()
	m.content.GotoTop()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	inner := m.innerWidth()
	m.content.SetWidth(inner)
	m.content.SetHeight(max(height-modalChrome, minViewportRow))
	m.message.SetWidth(max(inner-2, 10))
	m.help.SetWidth(inner)

	if m.opts.Renderer != nil {
		if err := m.opts.Renderer.SetWidth(inner); err != nil {
			m.log.Warn().Err(err).Msg("failed to resize content renderer")
		}
	}
}

func (m Model) modalWidth() int {
	target := m.width * modalWidthPct / 100
	return min(max(target, modalMinWidth), max(m.width-2, 1))
}

func (m Model) innerWidth() int {
	// border (2) + horizontal padding (4)
	return max(m.modalWidth()-6, 10)
}

func (m *Model) renderContent() {
	render := PlainText
	if m.opts.Renderer != nil {
		render = m.opts.Renderer.Render
	}

	var b strings.Builder
	b.WriteString(styles.SectionLabelStyle.Render("Original"))
	b.WriteString("\n")
	b.WriteString(render(m.ctrl.ContentHTML()))
	b.WriteString("\n\n")
	b.WriteString(styles.SectionLabelStyle.Render("Translation"))
	b.WriteString("\n")
	b.WriteString(render(m.ctrl.TranslationHTML()))

	m.content.SetContent(b.String())
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composites the review modal, any dialog over it, and the toasts on
// top of everything.
func (m Model) render() string {
	w, h := m.width, m.height

	content := m.modalView()
	switch {
	case m.confirm != nil:
		content = m.confirm.Overlay(content, w, h)
	case m.notifications != nil:
		content = m.notifications.Overlay(content, w, h)
	}

	if m.opts.Toasts.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

// modalView renders the review modal centered on an otherwise empty screen.
func (m Model) modalView() string {
	modal := styles.ModalStyle.
		Width(m.modalWidth() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			m.headerView(),
			"",
			m.content.View(),
			"",
			m.footerView(),
			m.help.View(m.keys),
		))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) headerView() string {
	title := "Review Translation Suggestion"
	if !m.ctrl.Reviewable() {
		title = "Translation Suggestion"
	}

	lines := []string{styles.ModalTitleStyle.Render(styles.IconQueue + " " + title)}
	if sub := m.ctrl.Subheading(); sub != "" {
		lines = append(lines, styles.ModalSubtitleStyle.Render(sub))
	}

	active := m.ctrl.Active()
	meta := []string{active.ID}
	if active.LanguageCode != "" {
		meta = append(meta, active.LanguageCode)
	}
	if active.AuthorName != "" {
		meta = append(meta, "by "+active.AuthorName)
	}
	if m.ctrl.Reviewable() {
		switch {
		case m.ctrl.LastSuggestionToReview():
			meta = append(meta, "last suggestion")
		default:
			meta = append(meta, fmt.Sprintf("%d remaining", m.ctrl.Remaining()))
		}
	} else {
		meta = append(meta, string(active.Status))
	}
	lines = append(lines, styles.MutedStyle.Render(strings.Join(meta, " · ")))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) footerView() string {
	if !m.ctrl.Reviewable() {
		return m.readOnlyFooter()
	}

	if m.ctrl.Resolving() {
		return m.spinner.View() + " " + styles.MutedStyle.Render("Resolving suggestion...")
	}

	box := styles.FormFieldStyle
	if m.message.Focused() {
		box = styles.FormFieldFocusedStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SectionLabelStyle.Render("Review message"),
		box.Render(m.message.View()),
	)
}

func (m Model) readOnlyFooter() string {
	if !m.ctrl.Active().IsRejected() {
		return ""
	}

	label := styles.SectionLabelStyle.Render("Review message")
	switch {
	case m.loadingThread:
		return label + "\n" + m.spinner.View() + " " + styles.MutedStyle.Render("Loading review message...")
	case m.ctrl.ReviewMessage() == "":
		return label + "\n" + styles.MutedStyle.Render("(none)")
	default:
		return label + "\n" + styles.ReviewMessageStyle.Render(m.ctrl.ReviewMessage())
	}
}
