package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/scrapnote/internal"
	"github.com/starford/scrapnote/internal/client"
	"github.com/starford/scrapnote/internal/ui"
	pkgconfig "github.com/starford/scrapnote/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("dir") {
		dir, err := filepath.Abs(cmd.String("dir"))
		if err != nil {
			return nil, fmt.Errorf("resolve --dir: %w", err)
		}
		cfg.Notes.FileDirectory = dir
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// run starts the server with the terminal UI in front of it.
func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The UI owns the terminal; logs go to the configured file or nowhere.
	var out io.Writer = io.Discard
	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.App.LogLevel}))

	frontend := func(ctx context.Context, baseURL string, logger *slog.Logger) error {
		return ui.Run(ctx, client.New(baseURL), logger)
	}

	if err := internal.Run(ctx,
		internal.WithConfig(cfg),
		internal.WithLogger(logger),
		internal.WithFrontend(frontend),
	); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "scrapnote",
		Usage:  "Keyboard-driven scrap notes kept as plain files in one directory",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("SCRAPNOTE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Note directory (overrides notes.file_directory)",
				Sources: cli.EnvVars("SCRAPNOTE_DIR"),
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port on the loopback interface, 0 for any free port",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run only the HTTP server and browser UI",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the notes over MCP on stdin/stdout",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// The default logger may have been redirected away from the terminal.
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		logger.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
