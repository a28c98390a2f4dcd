package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhle/tasknest/internal/config"
)

// OpenKV opens the backend named in cfg.
func OpenKV(cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryKV(), nil
	case config.BackendKeyring:
		if err := os.MkdirAll(cfg.KeyringDir, 0o700); err != nil {
			return nil, fmt.Errorf("creating keyring directory: %w", err)
		}
		return NewKeyringKV(KeyringOptions{Dir: cfg.KeyringDir, Password: cfg.KeyringPassword})
	case config.BackendSQLite, "":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		return NewSQLiteKV(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Open returns an Adapter over the configured backend. When the backend
// cannot be opened the failure is logged and an in-memory store is used,
// so the session still works but nothing outlives it.
func Open(cfg config.StorageConfig, logger *slog.Logger, opts ...Option) *Adapter {
	kv, err := OpenKV(cfg)
	if err != nil {
		logger.Error("storage unavailable, falling back to memory",
			slog.String("backend", cfg.Backend),
			slog.String("error", err.Error()),
		)
		kv = NewMemoryKV()
	}
	return NewAdapter(kv, append([]Option{WithLogger(logger)}, opts...)...)
}
