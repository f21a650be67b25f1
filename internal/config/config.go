// Package config resolves runtime settings from defaults, the environment
// and command-line flags, in that order.
package config

import (
	"io"
	"log/slog"
	"os"
)

const (
	// EnvDBPath overrides the database file location.
	EnvDBPath = "BOOKSHELF_DB"

	DefaultDBPath = "book_reviews.db"
)

type Config struct {
	DBPath  string
	Verbose bool
	JSON    bool
}

func Default() Config {
	return Config{DBPath: DefaultDBPath}
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	if path, ok := os.LookupEnv(EnvDBPath); ok && path != "" {
		cfg.DBPath = path
	}
	return cfg
}

func (c Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel()}))
}
