package ui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/scrapnote/internal/client"
)

// Run drives the terminal front end against c until the user quits or ctx
// ends. Notes created or removed behind the app's back refresh the list when
// the server's event stream is available.
func Run(ctx context.Context, c *client.Client, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []ShellOption
	events, err := c.Events(ctx)
	if err != nil {
		logger.Warn("note events unavailable", "error", err)
	} else {
		opts = append(opts, WithChanges(membershipChanges(ctx, events)))
	}

	shell := NewShell(ctx, c, opts...)
	p := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// membershipChanges keeps the events that change which notes exist.
func membershipChanges(ctx context.Context, events <-chan client.Event) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Type != "note.created" && ev.Type != "note.removed" {
				continue
			}
			select {
			case out <- ev.Name:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
