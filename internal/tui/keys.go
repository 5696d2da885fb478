package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ShiftUp      key.Binding
	ShiftDown    key.Binding
	SwitchTarget key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	ShiftUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move tab up"),
	),
	ShiftDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move tab down"),
	),
	SwitchTarget: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch target"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync"),
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

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.ShiftUp, k.ShiftDown, k.SwitchTarget, k.Sync, k.Help, k.Quit}
}
