// Package config loads the tact configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sandeepzgk/tact/library"
	"github.com/sandeepzgk/tact/serial"
)

// Library backends.
const (
	BackendDir    = "dir"
	BackendBadger = "badger"
)

// Config is the user configuration.
type Config struct {
	// Library is the directory holding the cue library.
	Library string `yaml:"library" validate:"required"`
	// Backend selects how the library is stored: dir or badger.
	Backend string `yaml:"backend" validate:"oneof=dir badger"`
	// Format is the encoding for newly saved entries in a dir library.
	Format string `yaml:"format" validate:"oneof=binary json yaml"`

	SampleRate float64 `yaml:"sample_rate" validate:"gt=0,lte=384000"`
	BufferSize int     `yaml:"buffer_size" validate:"gt=0,lte=65536"`
	Channels   int     `yaml:"channels" validate:"min=1,max=64"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Library:    library.DefaultDir(),
		Backend:    BackendDir,
		Format:     "binary",
		SampleRate: 48000,
		BufferSize: 256,
		Channels:   2,
		LogLevel:   "info",
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tact.yaml"
	}
	return filepath.Join(dir, "Syntacts", "tact.yaml")
}

// Load reads the file at path over the defaults, applies TACT_*
// environment overrides and validates the result.  A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) fromEnv() error {
	if v := os.Getenv("TACT_LIBRARY"); v != "" {
		c.Library = v
	}
	if v := os.Getenv("TACT_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TACT_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("TACT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TACT_CHANNELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TACT_CHANNELS: %w", err)
		}
		c.Channels = n
	}
	if v := os.Getenv("TACT_SAMPLE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TACT_SAMPLE_RATE: %w", err)
		}
		c.SampleRate = f
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes c to path as YAML, creating parent directories.
func (c Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SerialFormat returns the configured encoding.
func (c Config) SerialFormat() serial.Format {
	f, err := serial.ParseFormat(c.Format)
	if err != nil {
		return serial.Binary
	}
	return f
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// OpenLibrary opens the configured library store.
func (c Config) OpenLibrary(log *slog.Logger) (library.Store, error) {
	switch c.Backend {
	case BackendBadger:
		return library.OpenDB(library.DBConfig{
			Path:       filepath.Join(c.Library, "db"),
			SyncWrites: true,
			Logger:     log,
		})
	default:
		d, err := library.OpenDir(c.Library, c.SerialFormat())
		if err != nil {
			return nil, err
		}
		d.Logger = log
		return d, nil
	}
}
