// Package noteservice is the boundary between transports (HTTP, MCP) and the
// note store.
package noteservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/scrapnote/internal/models"
	"github.com/starford/scrapnote/internal/storage"
)

// Service coordinates store operations for the transports.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewService creates a new note service. A nil logger uses slog.Default().
func NewService(store storage.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ListNotes returns the notes whose name contains key. The result is never nil.
func (s *Service) ListNotes(_ context.Context, key string) ([]models.Item, error) {
	items, err := s.store.List(key)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("notes listed", slog.String("key", key), slog.Int("count", len(items)))
	return nonNilSlice(items), nil
}

// GetNote returns the content of a note, creating it empty if it does not exist.
func (s *Service) GetNote(_ context.Context, name string) (string, error) {
	content, err := s.store.Read(name)
	if err != nil {
		return "", err
	}
	s.logger.Debug("note read", slog.String("name", name), slog.Int("bytes", len(content)))
	return content, nil
}

// SaveNote overwrites a note.
func (s *Service) SaveNote(_ context.Context, name, content string) error {
	start := time.Now()
	if err := s.store.Write(name, content); err != nil {
		return err
	}
	s.logger.Info("note saved",
		slog.String("name", name),
		slog.Int("bytes", len(content)),
		slog.Duration("took", time.Since(start)))
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
