package ui

import (
	"context"

	"github.com/starford/scrapnote/internal/models"
)

// Store is the note store as seen by the UI. Calls run inside tea.Cmds and
// must honour ctx cancellation for superseded requests.
type Store interface {
	List(ctx context.Context, key string) ([]models.Item, error)
	Read(ctx context.Context, name string) (string, error)
	Write(ctx context.Context, name, content string) error
}
