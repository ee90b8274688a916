// Package storage implements the flat, directory-backed note store.
package storage

import "github.com/starford/scrapnote/internal/models"

// Provider is the interface for note file operations. Names are bare file
// names inside the note directory; there are no subdirectories.
type Provider interface {
	// List returns the notes whose name contains key ("" lists everything).
	List(key string) ([]models.Item, error)
	// Read returns the content of the note, creating it empty if absent.
	Read(name string) (string, error)
	// Write replaces the content of the note.
	Write(name, content string) error
}
