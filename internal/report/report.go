// Package report defines the persisted record types shared by every
// storage backend: one Run per decode session, with the entities it
// decoded and the diagnostics it produced.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// Run is one decode session over a map source.
type Run struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	SessionID   string     `gorm:"size:64;index" json:"sessionId"`
	MapName     string     `json:"mapName"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
	EntityCount uint       `json:"entityCount"`
	ErrorCount  uint       `json:"errorCount"`
}

// EntityRecord is one decoded entity: its classname, the bundles that
// were attached, and the raw key/value pairs as they appeared.
type EntityRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	RunID     uint           `gorm:"index" json:"runId"`
	Classname string         `json:"classname"`
	Bundles   datatypes.JSON `json:"bundles"`
	KeyValues datatypes.JSON `json:"keyValues"`
}

// Diagnostic is one field decode failure.
type Diagnostic struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	RunID     uint   `gorm:"index" json:"runId"`
	Classname string `json:"classname"`
	Field     string `json:"field"`
	Text      string `json:"text"`
	Expected  string `json:"expected"`
	Message   string `json:"message"`
}

// NewRun creates a run for the given map source with a fresh session ID.
func NewRun(mapName string, startedAt time.Time) *Run {
	return &Run{
		SessionID: uuid.New().String(),
		MapName:   mapName,
		StartedAt: startedAt,
	}
}

// NewEntityRecord builds an EntityRecord from a decoded entity's parts.
// Marshaling []string and []fgd.KeyValue cannot fail, so errors are not
// surfaced.
func NewEntityRecord(runID uint, classname string, bundles []string, pairs []fgd.KeyValue) *EntityRecord {
	bundleJSON, _ := json.Marshal(bundles)
	pairJSON, _ := json.Marshal(pairs)
	return &EntityRecord{
		RunID:     runID,
		Classname: classname,
		Bundles:   datatypes.JSON(bundleJSON),
		KeyValues: datatypes.JSON(pairJSON),
	}
}

// NewDiagnostic builds a Diagnostic from a field decode failure.
func NewDiagnostic(runID uint, classname string, fe fgd.FieldError) *Diagnostic {
	return &Diagnostic{
		RunID:     runID,
		Classname: classname,
		Field:     fe.Field,
		Text:      fe.Text,
		Expected:  fe.Type.String(),
		Message:   fe.Error(),
	}
}
