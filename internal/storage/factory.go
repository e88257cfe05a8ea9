package storage

import (
	"fmt"

	"github.com/qmaptools/fgdkit/internal/config"
	"github.com/qmaptools/fgdkit/internal/logging"
	"github.com/qmaptools/fgdkit/internal/storage/memory"
	"github.com/qmaptools/fgdkit/internal/storage/postgres"
	sqlitestorage "github.com/qmaptools/fgdkit/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(cfg.Postgres, logManager)
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, logManager)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
