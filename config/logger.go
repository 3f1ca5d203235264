package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the application logger. Production writes JSON, anything else writes text.
// level is a slog level name (debug, info, warn, error, case-insensitive); empty or unknown
// means info. Debug logging also records the source line.
func NewLogger(environment, level string) *slog.Logger {
	return newLogger(os.Stdout, environment, level)
}

func newLogger(w io.Writer, environment, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelDebug}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts)).With("service", "devevents")
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
