package ui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// feedEditor applies every message produced by cmd to the editor and reports
// whether it released.
func feedEditor(e *Editor, cmd tea.Cmd) bool {
	released := false
	queue := exec(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		next, r := e.Update(msg)
		released = released || r
		queue = append(queue, exec(next)...)
	}
	return released
}

func boundEditor(t *testing.T, store *memStore, name string) *Editor {
	t.Helper()
	e := NewEditor(context.Background(), store)
	e.Focus()
	feedEditor(e, e.Bind(name))
	if !e.Editable() {
		t.Fatalf("editor not editable after binding %q (err=%v)", name, e.Err())
	}
	return e
}

func TestEditor_BindLoadsContent(t *testing.T) {
	store := newMemStore()
	store.notes["todo"] = "milk\neggs"
	e := boundEditor(t, store, "todo")

	if e.Bound() != "todo" {
		t.Errorf("bound = %q", e.Bound())
	}
	if e.Value() != "milk\neggs" {
		t.Errorf("value = %q", e.Value())
	}
	if !e.area.Focused() {
		t.Error("text area should hold the caret once loaded")
	}
}

func TestEditor_BindCreatesMissingNote(t *testing.T) {
	store := newMemStore()
	e := boundEditor(t, store, "hello")

	if e.Value() != "" {
		t.Errorf("value = %q, want empty", e.Value())
	}
	if _, ok := store.notes["hello"]; !ok {
		t.Error("note was not created")
	}
}

func TestEditor_NotEditableUntilLoaded(t *testing.T) {
	store := newMemStore()
	store.notes["todo"] = "milk"
	e := NewEditor(context.Background(), store)
	e.Focus()

	load := e.Bind("todo")
	if e.Editable() {
		t.Fatal("editable before content arrived")
	}

	cmd, released := e.Update(runes("x"))
	if cmd != nil || released {
		t.Error("keys must be ignored while loading")
	}
	if e.Value() != "" {
		t.Errorf("value = %q, want empty", e.Value())
	}

	feedEditor(e, load)
	if !e.Editable() || e.Value() != "milk" {
		t.Errorf("after load: editable=%v value=%q", e.Editable(), e.Value())
	}
}

func TestEditor_SupersededReadDiscarded(t *testing.T) {
	store := newMemStore()
	store.notes["one"] = "first"
	store.notes["two"] = "second"
	e := NewEditor(context.Background(), store)

	loadOne := e.Bind("one")
	loadTwo := e.Bind("two")
	feedEditor(e, loadTwo)
	feedEditor(e, loadOne)

	if e.Bound() != "two" || e.Value() != "second" {
		t.Errorf("bound=%q value=%q, want two/second", e.Bound(), e.Value())
	}
}

func TestEditor_EscapeSavesThenReleases(t *testing.T) {
	store := newMemStore()
	e := boundEditor(t, store, "hello")

	e.Update(runes("world"))
	save, released := e.Update(keyOf(tea.KeyEsc))
	if released {
		t.Error("release must wait for the save")
	}
	if save == nil {
		t.Fatal("escape issued no save")
	}

	if !feedEditor(e, save) {
		t.Error("completed save did not release")
	}
	if got := store.content("hello"); got != "world" {
		t.Errorf("stored = %q, want world", got)
	}
	if !slices.Equal(store.writes, []string{"hello"}) {
		t.Errorf("writes = %q", store.writes)
	}
	if e.Err() != nil {
		t.Errorf("err = %v", e.Err())
	}
}

func TestEditor_UntouchedNoteRoundTrips(t *testing.T) {
	for _, content := range []string{
		"a\tb",
		"line1\r\nline2",
		"bell\ax",
		"mixed\t\r\n\x1b[0m end\n",
	} {
		store := newMemStore()
		store.notes["n"] = content
		e := boundEditor(t, store, "n")

		save, _ := e.Update(keyOf(tea.KeyEsc))
		if !feedEditor(e, save) {
			t.Fatalf("%q: escape did not release", content)
		}
		if len(store.writes) != 1 {
			t.Errorf("%q: writes = %q, want one", content, store.writes)
		}
		if got := store.content("n"); got != content {
			t.Errorf("opening and leaving rewrote %q as %q", content, got)
		}
	}
}

func TestEditor_EditedNoteSavesBuffer(t *testing.T) {
	store := newMemStore()
	store.notes["n"] = "a\tb"
	e := boundEditor(t, store, "n")

	e.Update(runes("!"))
	save, _ := e.Update(keyOf(tea.KeyEsc))
	feedEditor(e, save)

	got := store.content("n")
	if got == "a\tb" || !strings.Contains(got, "!") {
		t.Errorf("stored = %q, want the edited buffer", got)
	}
}

func TestEditor_EscapeUnboundReleasesImmediately(t *testing.T) {
	store := newMemStore()
	e := NewEditor(context.Background(), store)
	e.Focus()

	cmd, released := e.Update(keyOf(tea.KeyEsc))
	if cmd != nil || !released {
		t.Errorf("cmd=%v released=%v, want immediate release", cmd != nil, released)
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %q, want none", store.writes)
	}
}

func TestEditor_EscapeBeforeLoadDoesNotWrite(t *testing.T) {
	store := newMemStore()
	store.notes["todo"] = "keep me"
	e := NewEditor(context.Background(), store)
	e.Focus()
	e.Bind("todo")

	cmd, released := e.Update(keyOf(tea.KeyEsc))
	if cmd != nil || !released {
		t.Errorf("cmd=%v released=%v, want immediate release", cmd != nil, released)
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %q, want none", store.writes)
	}
	if got := store.content("todo"); got != "keep me" {
		t.Errorf("stored = %q", got)
	}
}

func TestEditor_FailedReadStaysReadOnly(t *testing.T) {
	store := newMemStore()
	store.readErr = errStore
	e := NewEditor(context.Background(), store)
	e.Focus()

	feedEditor(e, e.Bind("todo"))
	if e.Editable() {
		t.Error("editable after failed read")
	}
	if !errors.Is(e.Err(), errStore) {
		t.Errorf("err = %v, want %v", e.Err(), errStore)
	}
	if !strings.Contains(e.View(), errStore.Error()) {
		t.Error("view should show the read error")
	}

	if _, released := e.Update(keyOf(tea.KeyEsc)); !released {
		t.Error("escape should release")
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %q, want none", store.writes)
	}
}

func TestEditor_FailedSaveStillReleases(t *testing.T) {
	store := newMemStore()
	e := boundEditor(t, store, "hello")
	store.writeErr = errStore

	e.Update(runes("draft"))
	save, _ := e.Update(keyOf(tea.KeyEsc))

	if !feedEditor(e, save) {
		t.Error("failed save did not release")
	}
	if !errors.Is(e.Err(), errStore) {
		t.Errorf("err = %v, want %v", e.Err(), errStore)
	}
	if e.Value() != "draft" {
		t.Errorf("buffer = %q, want it kept", e.Value())
	}
	if len(store.writes) != 1 {
		t.Errorf("writes = %d, want 1 (no retry)", len(store.writes))
	}
}

func TestEditor_OnlyLatestSaveReleases(t *testing.T) {
	store := newMemStore()
	e := boundEditor(t, store, "hello")

	e.Update(runes("a"))
	first, _ := e.Update(keyOf(tea.KeyEsc))
	e.Update(runes("b"))
	second, _ := e.Update(keyOf(tea.KeyEsc))

	if feedEditor(e, first) {
		t.Error("superseded save released")
	}
	if !feedEditor(e, second) {
		t.Error("latest save did not release")
	}
	if got := store.content("hello"); got != "ab" {
		t.Errorf("stored = %q, want ab", got)
	}
}

func TestEditor_KeysIgnoredWhenBlurred(t *testing.T) {
	store := newMemStore()
	e := boundEditor(t, store, "hello")
	e.Blur()

	cmd, released := e.Update(keyOf(tea.KeyEsc))
	if cmd != nil || released {
		t.Error("blurred editor reacted to escape")
	}
	e.Update(runes("x"))
	if e.Value() != "" {
		t.Errorf("value = %q, want empty", e.Value())
	}
}
