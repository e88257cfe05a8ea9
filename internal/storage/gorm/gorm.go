// Package gormstorage implements the storage.Backend interface on top of
// a GORM database handle. The SQLite and Postgres backends wrap it via
// composition and differ only in how they open the handle.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/qmaptools/fgdkit/internal/logging"
	"github.com/qmaptools/fgdkit/internal/report"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps    Dependencies
	runID   atomic.Uint64
	dbReady bool
}

// New creates a GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init migrates the report schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("no database handle provided")
	}
	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true
	return nil
}

// setupDB migrates the run, entity and diagnostic tables.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	for _, model := range []any{&report.Run{}, &report.EntityRecord{}, &report.Diagnostic{}} {
		if err := db.AutoMigrate(model); err != nil {
			log.WriteLog("setupDB", fmt.Sprintf("Failed to migrate %T: %s", model, err), "ERROR")
			return err
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// StartRun persists the run row and makes it the current run.
func (b *Backend) StartRun(run *report.Run) error {
	if !b.dbReady {
		return fmt.Errorf("backend not initialized")
	}
	if err := b.deps.DB.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	b.runID.Store(uint64(run.ID))
	return nil
}

// RecordEntity persists a decoded entity under the current run.
func (b *Backend) RecordEntity(e *report.EntityRecord) error {
	if !b.dbReady {
		return fmt.Errorf("backend not initialized")
	}
	e.RunID = uint(b.runID.Load())
	return b.deps.DB.Create(e).Error
}

// RecordDiagnostic persists a decode failure under the current run.
func (b *Backend) RecordDiagnostic(d *report.Diagnostic) error {
	if !b.dbReady {
		return fmt.Errorf("backend not initialized")
	}
	d.RunID = uint(b.runID.Load())
	return b.deps.DB.Create(d).Error
}

// EndRun stamps the end time and stores the final counts on the run row.
func (b *Backend) EndRun() error {
	if !b.dbReady {
		return fmt.Errorf("backend not initialized")
	}
	runID := uint(b.runID.Load())
	if runID == 0 {
		return fmt.Errorf("no active run")
	}

	var entityCount, errorCount int64
	if err := b.deps.DB.Model(&report.EntityRecord{}).Where("run_id = ?", runID).Count(&entityCount).Error; err != nil {
		return fmt.Errorf("failed to count entities: %w", err)
	}
	if err := b.deps.DB.Model(&report.Diagnostic{}).Where("run_id = ?", runID).Count(&errorCount).Error; err != nil {
		return fmt.Errorf("failed to count diagnostics: %w", err)
	}

	now := time.Now().UTC()
	err := b.deps.DB.Model(&report.Run{}).Where("id = ?", runID).Updates(map[string]any{
		"ended_at":     &now,
		"entity_count": uint(entityCount),
		"error_count":  uint(errorCount),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}
	b.runID.Store(0)
	return nil
}
