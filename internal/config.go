package internal

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Notes  NotesConfig       `yaml:"notes"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Notes.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives logs while the terminal front end owns the screen.
	// Empty discards them.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	// Port 0 lets the OS pick a free port.
	Port int `yaml:"port"`
	// AllowRemote disables the loopback-only guard on the API.
	AllowRemote bool `yaml:"allow_remote"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
	)
}

// NotesConfig holds the location of the note directory.
type NotesConfig struct {
	FileDirectory string `yaml:"file_directory"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FileDirectory, validation.Required, validation.By(absolutePath)),
	)
}

// EventsConfig controls the directory watcher and its SSE stream.
type EventsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func absolutePath(value any) error {
	p, _ := value.(string)
	if p != "" && !filepath.IsAbs(p) {
		return errors.New("must be an absolute path")
	}
	return nil
}

// DefaultFileDirectory returns $HOME/scrapnote, falling back to ./scrapnote
// when the home directory is unknown.
func DefaultFileDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		abs, _ := filepath.Abs("scrapnote")
		return abs
	}
	return filepath.Join(home, "scrapnote")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 0,
			},
		},
		Notes: NotesConfig{
			FileDirectory: DefaultFileDirectory(),
		},
		Events: EventsConfig{
			Enabled: true,
		},
	}
}
