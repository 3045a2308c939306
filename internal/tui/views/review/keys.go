package review

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the review screen bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Accept  key.Binding
	Reject  key.Binding
	Clear   key.Binding
	View    key.Binding
	Detail  key.Binding
	Discard key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	PageUp  key.Binding
	PageDn  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "prev risk")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next risk")),
		Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
		Reject:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reject")),
		Clear:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "clear")),
		View:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "base/edited")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
		Discard: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "discard all")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
		PageUp:  key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDn:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Accept, k.Reject, k.View, k.Detail, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDn},
		{k.Accept, k.Reject, k.Clear, k.Discard},
		{k.View, k.Detail, k.Help, k.Quit},
	}
}
