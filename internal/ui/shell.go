package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus identifies the pane that owns keyboard input.
type Focus int

const (
	FocusCommand Focus = iota
	FocusEditor
)

func (f Focus) String() string {
	switch f {
	case FocusEditor:
		return "editor"
	default:
		return "command"
	}
}

// Shell is the root model. It owns both panes and moves focus between them.
type Shell struct {
	selector *Selector
	editor   *Editor

	focus   Focus
	editing string

	changes <-chan string
	width   int
	height  int
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithChanges feeds note names that appeared or disappeared outside the app.
// Each one refreshes the selector's list.
func WithChanges(ch <-chan string) ShellOption {
	return func(s *Shell) {
		s.changes = ch
	}
}

// NewShell creates a shell with focus on the selector and no note bound.
func NewShell(ctx context.Context, store Store, opts ...ShellOption) *Shell {
	s := &Shell{
		selector: NewSelector(ctx, store),
		editor:   NewEditor(ctx, store),
		focus:    FocusCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Focus returns the pane that owns keyboard input.
func (s *Shell) Focus() Focus {
	return s.focus
}

// Editing returns the name most recently committed from the selector.
func (s *Shell) Editing() (string, bool) {
	return s.editing, s.editing != ""
}

// Selector returns the command pane.
func (s *Shell) Selector() *Selector {
	return s.selector
}

// Editor returns the editor pane.
func (s *Shell) Editor() *Editor {
	return s.editor
}

func (s *Shell) Init() tea.Cmd {
	return tea.Batch(s.selector.Focus(), s.waitForChange())
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.layout()
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, shellKeys.Quit) {
			return s, tea.Quit
		}
		if s.focus == FocusEditor {
			cmd, released := s.editor.Update(msg)
			if released {
				return s, tea.Batch(cmd, s.release())
			}
			return s, cmd
		}
		cmd, name := s.selector.Update(msg)
		if name != "" {
			return s, tea.Batch(cmd, s.commit(name))
		}
		return s, cmd

	case ItemsLoadedMsg, CompositionMsg, InputMsg:
		cmd, name := s.selector.Update(msg)
		if name != "" {
			return s, tea.Batch(cmd, s.commit(name))
		}
		return s, cmd

	case NotesChangedMsg:
		cmd, _ := s.selector.Update(msg)
		return s, tea.Batch(cmd, s.waitForChange())

	case ContentLoadedMsg, SavedMsg:
		cmd, released := s.editor.Update(msg)
		if released && s.focus == FocusEditor {
			return s, tea.Batch(cmd, s.release())
		}
		return s, cmd
	}
	return s, nil
}

// commit hands focus to the editor bound to name.
func (s *Shell) commit(name string) tea.Cmd {
	s.editing = name
	s.focus = FocusEditor
	s.selector.Blur()
	load := s.editor.Bind(name)
	return tea.Batch(load, s.editor.Focus())
}

// release hands focus back to the selector. The editor keeps its binding.
func (s *Shell) release() tea.Cmd {
	s.focus = FocusCommand
	s.editor.Blur()
	return s.selector.Focus()
}

func (s *Shell) waitForChange() tea.Cmd {
	if s.changes == nil {
		return nil
	}
	ch := s.changes
	return func() tea.Msg {
		name, ok := <-ch
		if !ok {
			return nil
		}
		return NotesChangedMsg{Name: name}
	}
}

// layout splits the window between the panes, selector on top.
func (s *Shell) layout() {
	frame := paneStyle.GetHorizontalFrameSize()
	inner := max(s.width-frame, 1)

	// Selector: input line, list rows, status line.
	rows := max(s.height/3-paneStyle.GetVerticalFrameSize()-2, 1)
	s.selector.SetSize(inner, rows)

	used := rows + 2 + paneStyle.GetVerticalFrameSize()
	// Editor: title line, text area, status line.
	area := max(s.height-used-paneStyle.GetVerticalFrameSize()-2, 1)
	s.editor.SetSize(inner, area)
}

func (s *Shell) View() string {
	top, bottom := paneStyle, paneStyle
	if s.focus == FocusEditor {
		bottom = focusedPaneStyle
	} else {
		top = focusedPaneStyle
	}
	if s.width > 0 {
		w := max(s.width-paneStyle.GetHorizontalBorderSize(), 1)
		top = top.Width(w)
		bottom = bottom.Width(w)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top.Render(s.selector.View()),
		bottom.Render(s.editor.View()),
	)
}
