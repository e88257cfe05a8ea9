package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/qmaptools/fgdkit/internal/config"
	"github.com/qmaptools/fgdkit/internal/defs"
	"github.com/qmaptools/fgdkit/internal/entity"
	"github.com/qmaptools/fgdkit/internal/export"
	"github.com/qmaptools/fgdkit/internal/logging"
	"github.com/qmaptools/fgdkit/internal/mapfile"
	"github.com/qmaptools/fgdkit/internal/report"
	"github.com/qmaptools/fgdkit/internal/schema"
	"github.com/qmaptools/fgdkit/internal/storage"
	"github.com/qmaptools/fgdkit/pkg/fgd"
)

// buildRegistry combines the builtin bundles with any YAML defs from the
// configured defs directory.
func buildRegistry() (*schema.Registry, error) {
	defsDir := viper.GetString("defs.dir")
	loaded, err := defs.LoadDir(defsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load defs from %s: %w", defsDir, err)
	}
	if len(loaded) > 0 {
		Logger.Info("Loaded extra bundle definitions", "dir", defsDir, "count", len(loaded))
	}
	return schema.NewBuiltinRegistry(loaded...)
}

// runExport writes the registry as an FGD file.
func runExport(outputPath string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, reg); err != nil {
		return fmt.Errorf("failed to write FGD: %w", err)
	}
	Logger.Info("Wrote FGD", "path", outputPath, "bundles", len(reg.IDs()))
	return nil
}

// decodeCounters instruments the validate path. With OTel disabled the
// counters are no-ops.
type decodeCounters struct {
	entities metric.Int64Counter
	errors   metric.Int64Counter
}

func newDecodeCounters() decodeCounters {
	var meter metric.Meter = noop.Meter{}
	if OTelProvider != nil {
		meter = OTelProvider.Meter(ToolName)
	}
	entities, _ := meter.Int64Counter("fgdkit.decode.entities")
	errors, _ := meter.Int64Counter("fgdkit.decode.field_errors")
	return decodeCounters{entities: entities, errors: errors}
}

// runValidate decodes every entity in the given map files and records the
// results through the configured storage backend.
func runValidate(mapPaths []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	decoder := entity.Decoder{
		Registry:   reg,
		StrictBool: config.GetDecodeConfig().StrictBool,
	}

	storageBackend, err = storage.NewBackend(config.GetStorageConfig(), SlogManager)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := storageBackend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer storageBackend.Close()

	counters := newDecodeCounters()
	totalErrors := 0
	for _, mapPath := range mapPaths {
		n, err := validateMap(decoder, counters, mapPath)
		if err != nil {
			return err
		}
		totalErrors += n
	}

	if totalErrors > 0 {
		return fmt.Errorf("%d field errors across %d map file(s)", totalErrors, len(mapPaths))
	}
	return nil
}

// validateMap runs one decode session over a single map file and returns
// the number of field errors found.
func validateMap(decoder entity.Decoder, counters decodeCounters, mapPath string) (int, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read map: %w", err)
	}
	ents, err := mapfile.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", mapPath, err)
	}

	run := report.NewRun(mapPath, time.Now().UTC())
	if err := storageBackend.StartRun(run); err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	ctx := context.Background()
	errorCount := 0
	for _, ent := range ents {
		classname := ent.Classname()
		bundles := entity.BundlesFor(classname, ent.HasBrushes())
		decoded, diags := decoder.Decode(classname, bundles, ent.KeyPairs())
		counters.entities.Add(ctx, 1)
		counters.errors.Add(ctx, int64(len(diags)))

		rec := report.NewEntityRecord(run.ID, classname, decoded.Bundles(), ent.KeyPairs())
		if err := storageBackend.RecordEntity(rec); err != nil {
			return 0, fmt.Errorf("failed to record entity: %w", err)
		}

		for _, diag := range diags {
			errorCount++
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", mapPath, classname, &diag)
			if err := storageBackend.RecordDiagnostic(report.NewDiagnostic(run.ID, classname, diag)); err != nil {
				return 0, fmt.Errorf("failed to record diagnostic: %w", err)
			}
		}
	}

	if err := storageBackend.EndRun(); err != nil {
		return 0, fmt.Errorf("failed to end run: %w", err)
	}

	Logger.Info("Validated map",
		"path", mapPath, "entities", len(ents), "errors", errorCount)
	if exp, ok := storageBackend.(storage.Exportable); ok {
		Logger.Info("Report written", "path", exp.ExportedFilePath())
	}
	return errorCount, nil
}

// runRoundtrip decodes a map and writes it back with canonical key
// encodings. Unrecognized keys pass through verbatim.
func runRoundtrip(inPath, outPath string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	decoder := entity.Decoder{
		Registry:   reg,
		StrictBool: config.GetDecodeConfig().StrictBool,
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read map: %w", err)
	}
	ents, err := mapfile.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", inPath, err)
	}

	out := make([]mapfile.Entity, 0, len(ents))
	for _, ent := range ents {
		classname := ent.Classname()
		bundles := entity.BundlesFor(classname, ent.HasBrushes())
		decoded, diags := decoder.Decode(classname, bundles, ent.KeyPairs())
		for _, diag := range diags {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", inPath, classname, &diag)
		}

		pairs := append([]fgd.KeyValue{{Key: "classname", Value: classname}}, decoded.Encode()...)
		out = append(out, mapfile.Entity{Pairs: pairs, Brushes: ent.Brushes})
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := mapfile.Write(f, out); err != nil {
		return fmt.Errorf("failed to write map: %w", err)
	}
	Logger.Info("Wrote canonical map", "path", outPath, "entities", len(out))
	return nil
}

// runWatch re-exports the FGD whenever a defs file changes, until
// interrupted.
func runWatch() error {
	defsDir := viper.GetString("defs.dir")
	outputPath := viper.GetString("export.outputPath")

	watcher, err := defs.NewWatcher(defsDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", defsDir, err)
	}
	defer watcher.Close()

	log := logging.NewWatchLogger(os.Stderr, viper.GetString("logLevel"))

	if err := runExport(outputPath); err != nil {
		log.Error("initial export failed", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Info("watching for defs changes", "dir", defsDir, "output", outputPath)
	for {
		select {
		case path := <-watcher.Events:
			log.Info("defs changed, re-exporting", "path", path)
			if err := runExport(outputPath); err != nil {
				log.Error("export failed", "path", path, "error", err)
			}
		case err := <-watcher.Errors:
			log.Error("watcher error", "error", err)
		case <-sigCh:
			log.Info("shutting down")
			return nil
		}
	}
}
