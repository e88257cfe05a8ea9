package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/qmaptools/fgdkit/internal/config"
	"github.com/qmaptools/fgdkit/internal/logging"
	intOtel "github.com/qmaptools/fgdkit/internal/otel"
	"github.com/qmaptools/fgdkit/internal/storage"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"

	ToolName string = "fgdkit"
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// LogFilePath is the per-session log file, "" when logging to stdout only
	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()

	// storageBackend persists decode reports
	storageBackend storage.Backend
)

// setupLogging loads config and routes logs to a session file, with an
// optional OTel bridge.
func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	LogFilePath = logging.LogFilePath(logsDir, ToolName, SessionStartTime)

	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file, logging to stdout", "error", err, "path", LogFilePath)
		LogFilePath = ""
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	if LogFilePath != "" {
		Logger.Info("Logging to file", "path", LogFilePath)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [arguments]

commands:
  export [output.fgd]        write the entity definitions as an FGD file
  validate <map files...>    decode map entities and report diagnostics
  roundtrip <in.map> <out.map>
                             decode and re-encode a map with canonical keys
  watch                      re-export the FGD whenever a defs file changes
  version                    print version and build date
`, ToolName)
}

func main() {
	setupLogging()
	defer func() {
		if LogFile != nil {
			LogFile.Close()
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "export":
		outputPath := viper.GetString("export.outputPath")
		if len(args) > 1 {
			outputPath = args[1]
		}
		err = runExport(outputPath)
	case "validate":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "No map files provided.")
			os.Exit(2)
		}
		err = runValidate(args[1:])
	case "roundtrip":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "roundtrip needs an input and an output path.")
			os.Exit(2)
		}
		err = runRoundtrip(args[1], args[2])
	case "watch":
		err = runWatch()
	case "version":
		fmt.Printf("%s %s (built %s)\n", ToolName, Version, BuildDate)
	default:
		usage()
		os.Exit(2)
	}

	shutdown()

	if err != nil {
		Logger.Error("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

// shutdown flushes the OTel pipeline so logs land before exit.
func shutdown() {
	if OTelProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := OTelProvider.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush OTel data", "error", err)
	}
	if err := OTelProvider.Shutdown(ctx); err != nil {
		Logger.Warn("Failed to shut down OTel provider", "error", err)
	}
}
