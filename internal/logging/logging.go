// Package logging builds the slog logger shared by the store and the
// domain layer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/tasknest/internal/config"
)

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger writing to w in the configured format.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Open creates the log file named in cfg and returns a logger writing to it.
// The TUI owns the terminal, so logs never go to stdout. An empty path
// discards output. The returned close func is always non-nil.
func Open(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		l, err := New(io.Discard, cfg)
		return l, func() error { return nil }, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, func() error { return nil }, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() error { return nil }, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	l, err := New(f, cfg)
	if err != nil {
		f.Close()
		return nil, func() error { return nil }, err
	}
	return l, f.Close, nil
}
