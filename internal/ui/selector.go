package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scrapnote/internal/models"
)

// Selector is the filter/picker pane: a single-line input over the list of
// notes whose name contains the input.
type Selector struct {
	ctx   context.Context
	store Store

	input     textinput.Model
	composing bool
	items     []models.Item
	highlight int
	err       error

	focused   bool
	populated bool

	// List request supersession.
	token  uint64
	cancel context.CancelFunc

	width  int
	rows   int // visible list rows
	offset int // first visible row
}

// NewSelector creates an unfocused selector backed by store. Requests are
// derived from ctx.
func NewSelector(ctx context.Context, store Store) *Selector {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter or new note"
	ti.CharLimit = 0
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Blur()

	return &Selector{
		ctx:   ctx,
		store: store,
		input: ti,
		rows:  10,
	}
}

// Focus places the caret in the input field. The first focus populates the
// list with every note.
func (s *Selector) Focus() tea.Cmd {
	s.focused = true
	cmds := []tea.Cmd{s.input.Focus()}
	if !s.populated {
		s.populated = true
		cmds = append(cmds, s.query(""))
	}
	return tea.Batch(cmds...)
}

// Blur removes focus. Input, items and highlight are kept for the next focus.
func (s *Selector) Blur() {
	s.focused = false
	s.input.Blur()
}

// Focused reports whether the selector holds focus.
func (s *Selector) Focused() bool {
	return s.focused
}

// Input returns the raw input text.
func (s *Selector) Input() string {
	return s.input.Value()
}

// Items returns the current filter result.
func (s *Selector) Items() []models.Item {
	return s.items
}

// Highlight returns the index of the highlighted item.
func (s *Selector) Highlight() int {
	return s.highlight
}

// SetSize sets the pane's inner width and the number of visible list rows.
func (s *Selector) SetSize(width, rows int) {
	s.width = width
	s.rows = max(rows, 1)
	s.input.Width = max(width-len(s.input.Prompt)-1, 1)
	s.scrollToHighlight()
}

// Update handles one message. The returned name is non-empty exactly when
// the user committed a note.
func (s *Selector) Update(msg tea.Msg) (tea.Cmd, string) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		s.applyItems(msg)
		return nil, ""

	case CompositionMsg:
		s.composing = msg.Composing
		return nil, ""

	case InputMsg:
		if s.ignoreInput(msg.Value) {
			return nil, ""
		}
		s.input.SetValue(msg.Value)
		return s.query(msg.Value), ""

	case NotesChangedMsg:
		if !s.populated {
			return nil, ""
		}
		return s.query(s.input.Value()), ""

	case tea.KeyMsg:
		if !s.focused {
			return nil, ""
		}
		return s.handleKey(msg)
	}
	return nil, ""
}

func (s *Selector) handleKey(msg tea.KeyMsg) (tea.Cmd, string) {
	switch {
	case key.Matches(msg, selectorKeys.CaretStart):
		s.input.CursorStart()
		return nil, ""

	case key.Matches(msg, selectorKeys.CaretEnd):
		s.input.CursorEnd()
		return nil, ""

	case key.Matches(msg, selectorKeys.Up):
		if s.highlight > 0 {
			s.highlight--
		}
		s.scrollToHighlight()
		return nil, ""

	case key.Matches(msg, selectorKeys.Down):
		if s.highlight+1 < len(s.items) {
			s.highlight++
		}
		s.scrollToHighlight()
		return nil, ""

	case key.Matches(msg, selectorKeys.Commit):
		return nil, s.selection()
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	after := s.input.Value()
	if after == before || s.ignoreInput(after) {
		return cmd, ""
	}
	return tea.Batch(cmd, s.query(after)), ""
}

// ignoreInput reports whether a text-input event is a composition artifact:
// an empty value while an IME composition is in progress.
func (s *Selector) ignoreInput(value string) bool {
	return s.composing && value == ""
}

// selection is the highlighted name, else the raw input.
func (s *Selector) selection() string {
	if s.highlight < len(s.items) {
		return s.items[s.highlight].Name
	}
	return s.input.Value()
}

// query issues List(key) under a fresh token, cancelling the previous request.
func (s *Selector) query(key string) tea.Cmd {
	s.token++
	token := s.token
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel

	store := s.store
	return func() tea.Msg {
		items, err := store.List(ctx, key)
		return ItemsLoadedMsg{Token: token, Key: key, Items: items, Err: err}
	}
}

func (s *Selector) applyItems(msg ItemsLoadedMsg) {
	if msg.Token != s.token {
		return
	}
	if msg.Err != nil {
		s.err = msg.Err
		return
	}
	s.err = nil
	s.items = msg.Items
	if len(s.items) == 0 {
		s.highlight = 0
	} else {
		s.highlight = min(s.highlight, len(s.items)-1)
	}
	s.scrollToHighlight()
}

// scrollToHighlight adjusts the list offset so the highlighted row is visible.
func (s *Selector) scrollToHighlight() {
	switch {
	case s.highlight < s.offset:
		s.offset = s.highlight
	case s.highlight >= s.offset+s.rows:
		s.offset = s.highlight - s.rows + 1
	}
	s.offset = max(min(s.offset, len(s.items)-s.rows), 0)
}

// View renders the input line, the visible rows of the list and a status line.
func (s *Selector) View() string {
	var b strings.Builder
	b.WriteString(s.input.View())

	end := min(s.offset+s.rows, len(s.items))
	for i := s.offset; i < end; i++ {
		b.WriteString("\n")
		if i == s.highlight {
			b.WriteString(selectedStyle.Render("> " + s.items[i].Name))
		} else {
			b.WriteString("  " + s.items[i].Name)
		}
	}
	for i := end - s.offset; i < s.rows; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.err != nil:
		b.WriteString(errorStyle.Render(s.err.Error()))
	case len(s.items) == 0 && s.input.Value() != "":
		b.WriteString(mutedStyle.Render("enter: new note " + s.input.Value()))
	default:
		b.WriteString(mutedStyle.Render("ctrl+n/ctrl+p move · enter open"))
	}
	return b.String()
}
