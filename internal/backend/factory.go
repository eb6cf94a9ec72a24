// Package backend selects and builds the store implementation from
// configuration.
package backend

import (
	"fmt"

	"adbill/internal/config"
	"adbill/internal/log"
	"adbill/internal/store"
	"adbill/internal/store/memory"
	"adbill/internal/store/sqlite"
)

// Type names a store implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Open builds the store named by the config. The memory backend starts
// seeded with demo data; sqlite persists across restarts and runs its
// migrations on open.
func Open(cfg *config.Config, logger *log.Logger) (store.Store, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid data backend %q", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("initialized sqlite backend",
			log.FieldBackend, string(t),
			"db_path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		logger.Info("initialized memory backend", log.FieldBackend, string(t))
		return memory.NewSeeded(), nil
	}
}
