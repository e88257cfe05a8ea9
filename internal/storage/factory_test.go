package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmaptools/fgdkit/internal/config"
	"github.com/qmaptools/fgdkit/internal/logging"
	"github.com/qmaptools/fgdkit/internal/storage/memory"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, logging.NewSlogManager())
	require.NoError(t, err)

	_, ok := b.(*memory.Backend)
	assert.True(t, ok)

	_, exportable := b.(Exportable)
	assert.True(t, exportable, "memory backend should expose its report path")
}

func TestNewBackend_SQLite(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "reports.db")},
	}, logging.NewSlogManager())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "etcd"}, logging.NewSlogManager())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
