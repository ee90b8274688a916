package internal

import (
	"context"
	"log/slog"
)

// Frontend runs against the started server at baseURL. Its return stops
// the application.
type Frontend func(ctx context.Context, baseURL string, logger *slog.Logger) error

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	logger   *slog.Logger
	frontend Frontend
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the default JSON logger on stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithFrontend runs fn once the server is listening.
func WithFrontend(fn Frontend) Option {
	return func(a *application) {
		a.frontend = fn
	}
}
