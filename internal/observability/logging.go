// Package observability builds the process-wide logger. The pipeline logs
// to the console and, when a log file is configured, to that file as well.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a logger writing INFO-level text logs (DEBUG when
// verbose) to stderr and, if logFile is non-empty, appending to logFile.
// The returned closer releases the log file and is safe to call when no
// file was opened.
func NewLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stderr)
	closer := func() {}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		out = io.MultiWriter(os.Stderr, file)
		closer = func() { _ = file.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}
