// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/scrapnote/internal/api"
	"github.com/starford/scrapnote/internal/assets"
	"github.com/starford/scrapnote/internal/noteservice"
	"github.com/starford/scrapnote/internal/sse"
	"github.com/starford/scrapnote/internal/storage"
	"github.com/starford/scrapnote/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("file_directory", cfg.Notes.FileDirectory),
		slog.Bool("events", cfg.Events.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, root, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	var broker *sse.Broker
	if cfg.Events.Enabled {
		broker = sse.NewBroker(15 * time.Second)
		defer broker.Close()
	}

	r := newRouter(svc, broker, !cfg.App.HTTP.AllowRemote, logger)

	ln, err := net.Listen("tcp", cfg.App.HTTP.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.App.HTTP.Address(), err)
	}
	baseURL := "http://" + ln.Addr().String()

	httpServer := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if broker != nil {
		// Event streams never go idle on their own.
		httpServer.RegisterOnShutdown(broker.Close)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if broker != nil {
		g.Go(func() error {
			err := watch.Watch(gCtx, root, logger, broker.PublishNoteEvent)
			if err != nil {
				// The API works without events.
				logger.Warn("watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", baseURL))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if app.frontend != nil {
		g.Go(func() error {
			defer cancel()
			if err := app.frontend(gCtx, baseURL, logger); err != nil {
				return fmt.Errorf("frontend: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// openStore prepares the note directory and the service over it. The
// returned root is the resolved directory the store serves.
func openStore(cfg *Config, logger *slog.Logger) (*noteservice.Service, string, error) {
	if err := os.MkdirAll(cfg.Notes.FileDirectory, 0o755); err != nil {
		return nil, "", fmt.Errorf("create note dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Notes.FileDirectory)
	if err != nil {
		return nil, "", fmt.Errorf("init storage: %w", err)
	}
	logger.Info("Note store opened", slog.String("root", store.Root()))
	return noteservice.NewService(store, logger), store.Root(), nil
}

// newRouter assembles health checks, the API under /api and the embedded
// assets at the root.
func newRouter(svc *noteservice.Service, broker *sse.Broker, loopbackOnly bool, logger *slog.Logger) chi.Router {
	var events http.Handler
	if broker != nil {
		events = broker
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc, loopbackOnly, events))
	r.Handle("/*", assets.Handler(assets.Static()))

	return r
}
