// Package config resolves friendbook settings from built-in defaults, an
// optional YAML file and FRIENDBOOK_* environment variables, in that order.
// Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/friendbook/internal/suggest"
)

const (
	EnvDB              = "FRIENDBOOK_DB"
	EnvSuggestionLimit = "FRIENDBOOK_SUGGESTION_LIMIT"
	EnvLogLevel        = "FRIENDBOOK_LOG_LEVEL"
	EnvLogFormat       = "FRIENDBOOK_LOG_FORMAT"
)

// DefaultDB is the database file used when nothing else names one.
const DefaultDB = "friendbook.db"

type Config struct {
	DB          string      `yaml:"db"`
	Suggestions Suggestions `yaml:"suggestions"`
	Log         Log         `yaml:"log"`
}

type Suggestions struct {
	Limit int `yaml:"limit"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		DB:          DefaultDB,
		Suggestions: Suggestions{Limit: suggest.DefaultLimit},
		Log:         Log{Level: "info", Format: "text"},
	}
}

// Load reads path (skipped when empty) over the defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	return LoadFrom(path, os.Getenv)
}

func LoadFrom(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(getenv(EnvDB)); v != "" {
		cfg.DB = v
	}
	if v := strings.TrimSpace(getenv(EnvSuggestionLimit)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSuggestionLimit, err)
		}
		cfg.Suggestions.Limit = n
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("db: must not be empty")
	}
	if c.Suggestions.Limit < 0 {
		return errors.New("suggestions.limit: must be >= 0")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// NewLogger builds the process logger. verbose forces debug level.
func NewLogger(c Config, w io.Writer, verbose bool) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if c.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// SetDefaultLogger installs NewLogger's result as the slog default.
func SetDefaultLogger(c Config, w io.Writer, verbose bool) {
	slog.SetDefault(NewLogger(c, w, verbose))
}
