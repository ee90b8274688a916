package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/scrapnote/internal/apperr"
	"github.com/starford/scrapnote/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the note directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute note directory.
func (f *FS) Root() string {
	return f.root
}

// notePath validates name and resolves it against the root, rejecting any
// result that is not a direct child of the root.
func (f *FS) notePath(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	abs := filepath.Join(f.root, name)
	if filepath.Dir(abs) != f.root {
		return "", fmt.Errorf("%w: %q escapes note directory", apperr.ErrInvalidName, name)
	}
	return abs, nil
}

// List enumerates the note directory and returns the regular files whose
// name contains key, in directory order.
func (f *FS) List(key string) ([]models.Item, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", apperr.ErrStoreUnavailable, f.root, err)
	}
	items := make([]models.Item, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if IsTempName(name) || !strings.Contains(name, key) {
			continue
		}
		if !f.isRegular(e) {
			continue
		}
		items = append(items, models.FileItem(name))
	}
	return items, nil
}

// isRegular reports whether e is a regular file or a symlink to one.
func (f *FS) isRegular(e fs.DirEntry) bool {
	mode := e.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(f.root, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the content of a note. A missing note is created empty.
func (f *FS) Read(name string) (string, error) {
	abs, err := f.notePath(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: read %s: %w", apperr.ErrStoreUnavailable, name, err)
	}
	file, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: create %s: %w", apperr.ErrStoreUnavailable, name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", apperr.ErrStoreUnavailable, name, err)
	}
	return "", nil
}

// Write atomically replaces a note: tmp file → fsync → rename.
func (f *FS) Write(name, content string) error {
	abs, err := f.notePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", apperr.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return fmt.Errorf("%w: write temp: %w", apperr.ErrStoreUnavailable, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod temp: %w", apperr.ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %w", apperr.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", apperr.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("%w: rename: %w", apperr.ErrStoreUnavailable, err)
	}
	success = true
	return nil
}

// IsTempName reports whether name belongs to an in-progress write.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}
