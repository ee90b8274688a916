package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Editor is the multi-line text pane bound to at most one note at a time.
type Editor struct {
	ctx   context.Context
	store Store

	area     textarea.Model
	bound    string
	// loaded is the note exactly as read; shown is how the text area holds
	// it after sanitizing tabs, carriage returns and control characters.
	loaded string
	shown  string
	editable bool
	focused  bool
	saving   bool
	err      error

	loadToken  uint64
	loadCancel context.CancelFunc
	saveToken  uint64
	saveCancel context.CancelFunc
}

// NewEditor creates an empty, unbound editor backed by store.
func NewEditor(ctx context.Context, store Store) *Editor {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.FocusedStyle = textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		EndOfBuffer: mutedStyle,
		Placeholder: mutedStyle,
		Prompt:      lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Blur()

	return &Editor{
		ctx:   ctx,
		store: store,
		area:  ta,
	}
}

// Bound returns the name of the bound note, or "" when none is bound.
func (e *Editor) Bound() string {
	return e.bound
}

// Editable reports whether the bound note's content has been loaded.
func (e *Editor) Editable() bool {
	return e.editable
}

// Value returns the current buffer.
func (e *Editor) Value() string {
	return e.area.Value()
}

// Err returns the last read or write failure shown in the pane.
func (e *Editor) Err() error {
	return e.err
}

// Focused reports whether the editor holds focus.
func (e *Editor) Focused() bool {
	return e.focused
}

// SetSize sets the text area's dimensions.
func (e *Editor) SetSize(width, height int) {
	e.area.SetWidth(max(width, 1))
	e.area.SetHeight(max(height, 1))
}

// Bind attaches the editor to name and loads its content. Any read still in
// flight for a previous binding is superseded.
func (e *Editor) Bind(name string) tea.Cmd {
	e.bound = name
	e.editable = false
	e.saving = false
	e.err = nil
	e.area.Reset()
	e.loaded, e.shown = "", ""
	// A save still in flight for the previous binding must not release this one.
	e.saveToken++

	e.loadToken++
	token := e.loadToken
	if e.loadCancel != nil {
		e.loadCancel()
	}
	ctx, cancel := context.WithCancel(e.ctx)
	e.loadCancel = cancel

	store := e.store
	return func() tea.Msg {
		content, err := store.Read(ctx, name)
		return ContentLoadedMsg{Token: token, Name: name, Content: content, Err: err}
	}
}

// Focus gives the editor keyboard focus. The caret is placed in the text
// area once content is loaded.
func (e *Editor) Focus() tea.Cmd {
	e.focused = true
	if e.editable {
		return e.area.Focus()
	}
	return nil
}

// Blur removes keyboard focus.
func (e *Editor) Blur() {
	e.focused = false
	e.area.Blur()
}

// Update handles one message and reports whether the editor released focus.
func (e *Editor) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case ContentLoadedMsg:
		return e.applyContent(msg), false

	case SavedMsg:
		if msg.Token != e.saveToken {
			return nil, false
		}
		e.saving = false
		e.err = msg.Err
		return nil, true

	case tea.KeyMsg:
		if !e.focused {
			return nil, false
		}
		if key.Matches(msg, editorKeys.Release) {
			return e.release()
		}
		if !e.editable {
			return nil, false
		}
		var cmd tea.Cmd
		e.area, cmd = e.area.Update(msg)
		return cmd, false
	}
	return nil, false
}

func (e *Editor) applyContent(msg ContentLoadedMsg) tea.Cmd {
	if msg.Token != e.loadToken {
		return nil
	}
	if msg.Err != nil {
		e.err = msg.Err
		return nil
	}
	e.err = nil
	e.area.SetValue(msg.Content)
	e.loaded, e.shown = msg.Content, e.area.Value()
	e.editable = true
	if e.focused {
		return e.area.Focus()
	}
	return nil
}

// release handles Escape. Nothing is written unless the bound note's content
// was loaded; otherwise the buffer is saved and focus returns on completion.
func (e *Editor) release() (tea.Cmd, bool) {
	if e.bound == "" || !e.editable {
		return nil, true
	}
	e.saveToken++
	token := e.saveToken
	if e.saveCancel != nil {
		e.saveCancel()
	}
	ctx, cancel := context.WithCancel(e.ctx)
	e.saveCancel = cancel
	e.saving = true

	name, content := e.bound, e.bufferContent()
	store := e.store
	return func() tea.Msg {
		return SavedMsg{Token: token, Name: name, Err: store.Write(ctx, name, content)}
	}, false
}

// bufferContent is the text to save. An untouched buffer saves the note as it
// was read, so content the text area cannot represent survives a round trip.
func (e *Editor) bufferContent() string {
	if v := e.area.Value(); v != e.shown {
		return v
	}
	return e.loaded
}

// View renders a title line, the text area and a status line.
func (e *Editor) View() string {
	var b strings.Builder

	switch e.bound {
	case "":
		b.WriteString(mutedStyle.Render("no note"))
	default:
		b.WriteString(titleStyle.Render(e.bound))
	}
	b.WriteString("\n")
	b.WriteString(e.area.View())
	b.WriteString("\n")

	switch {
	case e.err != nil:
		b.WriteString(errorStyle.Render(e.err.Error()))
	case e.saving:
		b.WriteString(mutedStyle.Render("saving…"))
	case e.bound != "" && !e.editable:
		b.WriteString(mutedStyle.Render("loading…"))
	case e.focused:
		b.WriteString(mutedStyle.Render("esc save & back"))
	}
	return b.String()
}
