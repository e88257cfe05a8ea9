// Package storage defines the decode-report persistence interface and
// the factory that selects a backend from configuration.
package storage

import "github.com/qmaptools/fgdkit/internal/report"

// Backend is the interface all report storage implementations satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(run *report.Run) error
	EndRun() error

	// Record persistence (assigns IDs to the passed pointers)
	RecordEntity(e *report.EntityRecord) error
	RecordDiagnostic(d *report.Diagnostic) error
}

// Exportable is an optional interface for backends that write a report
// file on EndRun.
type Exportable interface {
	ExportedFilePath() string
}
