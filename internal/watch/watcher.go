// Package watch reports note changes made to the note directory, whether by
// this process or by the user's other tools.
package watch

import (
	"context"
	"crypto/sha256"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/scrapnote/internal/sse"
	"github.com/starford/scrapnote/internal/storage"
)

// EventCallback is called once per observed note change.
// kind is one of sse.KindCreated, sse.KindUpdated, sse.KindRemoved.
type EventCallback func(kind, name string)

// Watch starts an fsnotify watcher on dir and reports note changes until ctx
// is cancelled. Only regular files directly inside dir are notes;
// subdirectories and in-progress write temp files are ignored. Writes that
// leave the content unchanged are not reported.
func Watch(ctx context.Context, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	sums := snapshot(dir)
	logger.Info("watcher: started", slog.String("dir", dir), slog.Int("notes", len(sums)))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if storage.IsTempName(name) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				sum, ok := noteSum(ev.Name)
				if !ok {
					continue
				}
				prev, known := sums[name]
				sums[name] = sum
				kind := sse.KindCreated
				if known {
					if prev == sum {
						continue
					}
					kind = sse.KindUpdated
				}
				logger.Debug("watcher: note changed", slog.String("name", name), slog.String("op", kind))
				if cb != nil {
					cb(kind, name)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old name only; the new name arrives
				// as a separate Create.
				if _, known := sums[name]; !known {
					continue
				}
				delete(sums, name)
				logger.Debug("watcher: note removed", slog.String("name", name))
				if cb != nil {
					cb(sse.KindRemoved, name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// snapshot records the content digest of every note currently in dir.
func snapshot(dir string) map[string][sha256.Size]byte {
	sums := make(map[string][sha256.Size]byte)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return sums
	}
	for _, e := range entries {
		if storage.IsTempName(e.Name()) {
			continue
		}
		if sum, ok := noteSum(filepath.Join(dir, e.Name())); ok {
			sums[e.Name()] = sum
		}
	}
	return sums
}

// noteSum digests a regular file. ok is false for anything that is not a
// readable regular file.
func noteSum(path string) (sum [sha256.Size]byte, ok bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return sum, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return sum, false
	}
	return sha256.Sum256(data), true
}
