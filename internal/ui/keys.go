package ui

import "github.com/charmbracelet/bubbles/key"

type selectorKeyMap struct {
	CaretStart key.Binding
	CaretEnd   key.Binding
	Up         key.Binding
	Down       key.Binding
	Commit     key.Binding
}

var selectorKeys = selectorKeyMap{
	CaretStart: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "line start")),
	CaretEnd:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "line end")),
	Up:         key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "up")),
	Down:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "down")),
	Commit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
}

type editorKeyMap struct {
	Release key.Binding
}

var editorKeys = editorKeyMap{
	Release: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "save & back")),
}

type shellKeyMap struct {
	Quit key.Binding
}

var shellKeys = shellKeyMap{
	Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
