package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"

	"github.com/starford/scrapnote/internal/api"
	"github.com/starford/scrapnote/internal/client"
	"github.com/starford/scrapnote/internal/noteservice"
	"github.com/starford/scrapnote/internal/testutil"
)

func startedShell(t *testing.T, store Store, opts ...ShellOption) *Shell {
	t.Helper()
	s := NewShell(context.Background(), store, opts...)
	settle(s, s.Init())
	if s.Focus() != FocusCommand {
		t.Fatalf("initial focus = %v, want command", s.Focus())
	}
	return s
}

func press(s *Shell, msg tea.Msg) {
	_, cmd := s.Update(msg)
	settle(s, cmd)
}

// wantFocus checks the focus state and that exactly the matching pane is focused.
func wantFocus(t *testing.T, s *Shell, want Focus) {
	t.Helper()
	if s.Focus() != want {
		t.Errorf("focus = %v, want %v", s.Focus(), want)
	}
	if s.Selector().Focused() != (want == FocusCommand) {
		t.Errorf("selector focused = %v with focus %v", s.Selector().Focused(), want)
	}
	if s.Editor().Focused() != (want == FocusEditor) {
		t.Errorf("editor focused = %v with focus %v", s.Editor().Focused(), want)
	}
}

func TestShell_InitialState(t *testing.T) {
	s := startedShell(t, newMemStore("apple"))

	if _, ok := s.Editing(); ok {
		t.Error("editing should be unset")
	}
	wantFocus(t, s, FocusCommand)
	wantItems(t, s.Selector(), "apple")
}

func TestShell_CommitMovesFocusSynchronously(t *testing.T) {
	s := startedShell(t, newMemStore("apple"))

	// Commands are not run: the transition itself must be complete.
	s.Update(keyOf(tea.KeyEnter))

	if name, ok := s.Editing(); !ok || name != "apple" {
		t.Errorf("editing = %q, %v, want apple", name, ok)
	}
	wantFocus(t, s, FocusEditor)
	if s.Editor().Bound() != "apple" {
		t.Errorf("editor bound = %q", s.Editor().Bound())
	}
}

func TestShell_KeysRoutedToFocusedPane(t *testing.T) {
	s := startedShell(t, newMemStore("apple"))
	press(s, keyOf(tea.KeyEnter))
	wantFocus(t, s, FocusEditor)

	press(s, runes("typed"))
	if s.Editor().Value() != "typed" {
		t.Errorf("editor = %q, want typed", s.Editor().Value())
	}
	if s.Selector().Input() != "" {
		t.Errorf("selector input = %q, want empty", s.Selector().Input())
	}
}

func TestShell_ReleaseKeepsEditing(t *testing.T) {
	store := newMemStore("apple")
	s := startedShell(t, store)
	press(s, keyOf(tea.KeyEnter))
	press(s, runes("pie"))
	press(s, keyOf(tea.KeyEsc))

	wantFocus(t, s, FocusCommand)
	if name, ok := s.Editing(); !ok || name != "apple" {
		t.Errorf("editing = %q, %v, want apple", name, ok)
	}
	if got := store.content("apple"); got != "pie" {
		t.Errorf("stored = %q, want pie", got)
	}
}

func TestShell_RecommitRereads(t *testing.T) {
	store := newMemStore("apple")
	s := startedShell(t, store)
	press(s, keyOf(tea.KeyEnter))
	press(s, keyOf(tea.KeyEsc))
	press(s, keyOf(tea.KeyEnter))

	if !slices.Equal(store.reads, []string{"apple", "apple"}) {
		t.Errorf("reads = %q, want two reads of apple", store.reads)
	}
	wantFocus(t, s, FocusEditor)
}

func TestShell_ChangesRefreshList(t *testing.T) {
	store := newMemStore("apple")
	changes := make(chan string, 1)
	s := NewShell(context.Background(), store, WithChanges(changes))
	settle(s, s.selector.Focus())
	wantItems(t, s.Selector(), "apple")

	store.notes["grape"] = ""
	changes <- "grape"
	close(changes)
	settle(s, s.waitForChange())

	wantItems(t, s.Selector(), "apple", "grape")
}

func TestShell_CtrlCQuits(t *testing.T) {
	s := startedShell(t, newMemStore())

	_, cmd := s.Update(keyOf(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestShell_ViewRendersBothPanes(t *testing.T) {
	s := startedShell(t, newMemStore("apple"))
	s.Update(tea.WindowSizeMsg{Width: 60, Height: 24})

	view := s.View()
	if !strings.Contains(view, "apple") || !strings.Contains(view, "no note") {
		t.Errorf("view missing a pane:\n%s", view)
	}
}

// wireLog records API requests reaching the server.
type wireLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *wireLog) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		l.calls = append(l.calls, r.Method+" "+r.URL.RequestURI())
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *wireLog) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return ""
	}
	return l.calls[len(l.calls)-1]
}

func httpShell(t *testing.T, names ...string) (*Shell, string, *wireLog) {
	t.Helper()
	dir, store := testutil.TestStore(t)
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	log := &wireLog{}
	r := chi.NewRouter()
	r.Use(log.middleware)
	r.Mount("/api", api.NewRouter(noteservice.NewService(store, testutil.DiscardLogger()), true, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return startedShell(t, client.New(srv.URL)), dir, log
}

func readNote(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestScenario_FreshStart(t *testing.T) {
	s, _, log := httpShell(t)

	if got := log.last(); got != "GET /api/files" {
		t.Errorf("request = %q", got)
	}
	wantItems(t, s.Selector())
	wantHighlight(t, s.Selector(), 0)
}

func TestScenario_CreateEditCommit(t *testing.T) {
	s, dir, log := httpShell(t)

	press(s, runes("hello"))
	wantItems(t, s.Selector())

	press(s, keyOf(tea.KeyEnter))
	if got := log.last(); got != "GET /api/file/hello" {
		t.Errorf("request = %q", got)
	}
	if got := readNote(t, dir, "hello"); got != "" {
		t.Errorf("new note = %q, want empty", got)
	}
	if !s.Editor().Editable() {
		t.Error("editor should be editable")
	}
	wantFocus(t, s, FocusEditor)

	press(s, runes("world"))
	press(s, keyOf(tea.KeyEsc))
	if got := log.last(); got != "POST /api/file/hello" {
		t.Errorf("request = %q", got)
	}
	if got := readNote(t, dir, "hello"); got != "world" {
		t.Errorf("saved = %q, want world", got)
	}
	wantFocus(t, s, FocusCommand)
}

func TestScenario_FilterNarrows(t *testing.T) {
	s, _, log := httpShell(t, "apple", "banana", "grape")
	press(s, keyOf(tea.KeyCtrlN))
	press(s, keyOf(tea.KeyCtrlN))

	press(s, runes("an"))
	if got := log.last(); got != "GET /api/files?key=an" {
		t.Errorf("request = %q", got)
	}
	wantItems(t, s.Selector(), "banana")
	wantHighlight(t, s.Selector(), 0)
}

func TestScenario_TabbedNoteSurvivesOpenAndLeave(t *testing.T) {
	s, dir, _ := httpShell(t)
	content := "col1\tcol2\r\nrow2\n"
	if err := os.WriteFile(filepath.Join(dir, "table"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	press(s, runes("table"))
	press(s, keyOf(tea.KeyEnter))
	press(s, keyOf(tea.KeyEsc))

	wantFocus(t, s, FocusCommand)
	if got := readNote(t, dir, "table"); got != content {
		t.Errorf("note rewritten as %q, want %q", got, content)
	}
}
