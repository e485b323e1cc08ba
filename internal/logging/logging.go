package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New builds the process logger: JSON records to stderr and, when logFile is
// set, appended to that file as well. The logger becomes the slog default so
// the stores' package-level slog calls share it. Callers must defer cleanup.
func New(level, logFile string) (*slog.Logger, func(), error) {
	return newLogger(os.Stderr, level, logFile)
}

func newLogger(stderr io.Writer, level, logFile string) (*slog.Logger, func(), error) {
	lvl := ParseLevel(level)

	writers := []io.Writer{stderr}
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	logger := slog.New(handler).With("service", "itemstore")
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// ParseLevel accepts slog level names in any case ("debug", "WARN", "info+2").
// Anything unparseable falls back to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
