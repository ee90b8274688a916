package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/scrapnote/internal/mcpserver"
)

// RunMCP serves the note store over MCP on stdin/stdout. Logs go to stderr
// unless a logger is given, since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}

	svc, _, err := openStore(app.config, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting", slog.String("file_directory", app.config.Notes.FileDirectory))
	if err := mcpserver.New(svc, logger).Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
