package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmaptools/fgdkit/internal/report"
)

// RunExport is the root JSON structure of a report file.
type RunExport struct {
	Run         report.Run            `json:"run"`
	Entities    []report.EntityRecord `json:"entities"`
	Diagnostics []report.Diagnostic   `json:"diagnostics"`
}

// exportJSON writes the run data to a JSON file, gzipped when configured.
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := RunExport{
		Run:         *b.run,
		Entities:    b.entities,
		Diagnostics: b.diagnostics,
	}
	if export.Entities == nil {
		export.Entities = []report.EntityRecord{}
	}
	if export.Diagnostics == nil {
		export.Diagnostics = []report.Diagnostic{}
	}

	mapName := strings.ReplaceAll(b.run.MapName, " ", "_")
	mapName = strings.ReplaceAll(mapName, string(filepath.Separator), "_")
	if mapName == "" {
		mapName = "untitled"
	}
	timestamp := b.run.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.report.json.gz", mapName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.report.json", mapName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
