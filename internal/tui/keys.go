package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextEntry   key.Binding
	PrevEntry   key.Binding
	NextFailing key.Binding
	PrevFailing key.Binding
	Toggle      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextEntry: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n/tab", "next message"),
	),
	PrevEntry: key.NewBinding(
		key.WithKeys("N", "shift+tab"),
		key.WithHelp("N/S-tab", "prev message"),
	),
	NextFailing: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next failing"),
	),
	PrevFailing: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev failing"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "findings/json"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
