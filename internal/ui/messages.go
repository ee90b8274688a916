package ui

import "github.com/starford/scrapnote/internal/models"

// ItemsLoadedMsg carries the result of a selector List request. Token
// identifies the request; only the selector's current token is applied.
type ItemsLoadedMsg struct {
	Token uint64
	Key   string
	Items []models.Item
	Err   error
}

// ContentLoadedMsg carries the result of an editor Read request.
type ContentLoadedMsg struct {
	Token   uint64
	Name    string
	Content string
	Err     error
}

// SavedMsg carries the result of an editor Write request.
type SavedMsg struct {
	Token uint64
	Name  string
	Err   error
}

// CompositionMsg reports that an IME composition session started or ended
// in the selector's input field. Terminals do not report composition; a host
// that owns the input field sends this and InputMsg.
type CompositionMsg struct {
	Composing bool
}

// InputMsg is a text-input event from a host that owns the input field: the
// field's complete value after the edit.
type InputMsg struct {
	Value string
}

// NotesChangedMsg reports that a note appeared in or disappeared from the
// note directory.
type NotesChangedMsg struct {
	Name string
}
