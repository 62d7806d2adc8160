package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the review modal bindings.
type KeyMap struct {
	Accept        key.Binding
	Reject        key.Binding
	Edit          key.Binding
	Done          key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	Notifications key.Binding
	Help          key.Binding
	Cancel        key.Binding
}

// DefaultKeyMap returns the default bindings. Accept and reject are
// disabled for read-only sessions.
func DefaultKeyMap(reviewable bool) KeyMap {
	km := KeyMap{
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "tab"),
			key.WithHelp("e", "review message"),
		),
		Done: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done editing"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "close"),
		),
	}

	if !reviewable {
		km.Accept.SetEnabled(false)
		km.Reject.SetEnabled(false)
		km.Edit.SetEnabled(false)
	}

	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Reject, k.Edit, k.Help, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Accept, k.Reject, k.Edit, k.Done},
		{k.ScrollUp, k.ScrollDown, k.Notifications},
		{k.Help, k.Cancel},
	}
}
