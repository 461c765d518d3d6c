package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the chooser's key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Open        key.Binding
	Parent      key.Binding
	Toggle      key.Binding
	Hidden      key.Binding
	Preview     key.Binding
	Filter      key.Binding
	Search      key.Binding
	Refresh     key.Binding
	Accept      key.Binding
	Help        key.Binding
	Quit        key.Binding
	Commit      key.Binding
	CancelInput key.Binding
}

// DefaultKeyMap returns vi-style bindings with arrow-key alternatives.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Open:        key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
		Parent:      key.NewBinding(key.WithKeys("h", "left", "backspace"), key.WithHelp("h", "parent")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Hidden:      key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden")),
		Preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Accept:      key.NewBinding(key.WithKeys("a", "ctrl+s"), key.WithHelp("a", "accept")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
		Commit:      key.NewBinding(key.WithKeys("enter")),
		CancelInput: key.NewBinding(key.WithKeys("esc")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Open, k.Parent, k.Accept, k.Quit, k.Help}
}

// FullHelp lists every binding, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Parent, k.Refresh},
		{k.Toggle, k.Accept, k.Quit},
		{k.Hidden, k.Preview, k.Filter, k.Search},
	}
}
