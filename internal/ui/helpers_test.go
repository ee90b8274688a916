package ui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scrapnote/internal/models"
)

var errStore = errors.New("store unavailable")

// memStore is an in-memory Store that records calls.
type memStore struct {
	mu     sync.Mutex
	notes  map[string]string
	lists  []string
	reads  []string
	writes []string

	listErr  error
	readErr  error
	writeErr error
}

func newMemStore(names ...string) *memStore {
	s := &memStore{notes: make(map[string]string)}
	for _, n := range names {
		s.notes[n] = ""
	}
	return s
}

func (s *memStore) List(_ context.Context, key string) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, key)
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.notes))
	for n := range s.notes {
		if strings.Contains(n, key) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	items := make([]models.Item, 0, len(names))
	for _, n := range names {
		items = append(items, models.FileItem(n))
	}
	return items, nil
}

func (s *memStore) Read(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, name)
	if s.readErr != nil {
		return "", s.readErr
	}
	content, ok := s.notes[name]
	if !ok {
		s.notes[name] = ""
	}
	return content, nil
}

func (s *memStore) Write(_ context.Context, name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, name)
	if s.writeErr != nil {
		return s.writeErr
	}
	s.notes[name] = content
	return nil
}

func (s *memStore) content(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes[name]
}

// exec runs cmd synchronously and flattens batches into their messages.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds every message produced by cmd back into the shell until no
// commands remain.
func settle(s *Shell, cmd tea.Cmd) {
	queue := exec(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		_, next := s.Update(msg)
		queue = append(queue, exec(next)...)
	}
}

// feedSelector applies every message produced by cmd to the selector.
func feedSelector(s *Selector, cmd tea.Cmd) string {
	var committed string
	queue := exec(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		next, name := s.Update(msg)
		if name != "" {
			committed = name
		}
		queue = append(queue, exec(next)...)
	}
	return committed
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func itemNames(items []models.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}
