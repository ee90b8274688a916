// Package testutil provides shared test helpers for note directories.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/scrapnote/internal/storage"
)

// TestStore creates a temporary note directory with a storage.Provider.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
