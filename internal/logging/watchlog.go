package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// WatchLogger is the key-value logger for the defs watch loop. Unlike the
// session log it writes human-oriented zerolog lines to a single stream,
// filtered by the configured level.
type WatchLogger struct {
	logger zerolog.Logger
}

// NewWatchLogger builds a WatchLogger writing timestamped lines to w.
// Unrecognized level strings fall back to info.
func NewWatchLogger(w io.Writer, level string) *WatchLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &WatchLogger{
		logger: zerolog.New(w).With().Timestamp().Logger().Level(lvl),
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *WatchLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *WatchLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *WatchLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a map for zerolog. Keys that are
// not strings are skipped, as is a trailing key without a value.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
