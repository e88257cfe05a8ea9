// Package memory stores a decode run in memory and exports it to a JSON
// report file when the run ends.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/qmaptools/fgdkit/internal/config"
	"github.com/qmaptools/fgdkit/internal/report"
)

// Backend accumulates run data in memory and writes a report on EndRun.
type Backend struct {
	cfg config.MemoryConfig

	run         *report.Run
	entities    []report.EntityRecord
	diagnostics []report.Diagnostic

	idCounter      uint
	lastExportPath string
	mu             sync.Mutex
}

// New creates a memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartRun begins a new run, discarding any previous one.
func (b *Backend) StartRun(run *report.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	run.ID = b.idCounter

	b.run = run
	b.entities = nil
	b.diagnostics = nil
	return nil
}

// RecordEntity stores a decoded entity for the current run.
func (b *Backend) RecordEntity(e *report.EntityRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	e.ID = uint(len(b.entities) + 1)
	b.entities = append(b.entities, *e)
	b.run.EntityCount++
	return nil
}

// RecordDiagnostic stores a decode failure for the current run.
func (b *Backend) RecordDiagnostic(d *report.Diagnostic) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	d.ID = uint(len(b.diagnostics) + 1)
	b.diagnostics = append(b.diagnostics, *d)
	b.run.ErrorCount++
	return nil
}

// EndRun finalizes the run and exports the report file.
func (b *Backend) EndRun() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	now := time.Now().UTC()
	b.run.EndedAt = &now

	return b.exportJSON()
}

// ExportedFilePath returns the path of the last written report, or ""
// when no run has ended yet.
func (b *Backend) ExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastExportPath
}
