// Package logging builds the process logger. Output goes to a file because
// the renderer owns stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/lixenwraith/termflow/errors"
)

// New creates a logger writing to w
func New(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		"service", "termflow",
		"pid", os.Getpid(),
	)
}

// Open creates a logger appending to the file at path. The returned closer
// closes the file.
func Open(path, level, format string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errs.Wrap(err, "logging", "Open", "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errs.Wrap(err, "logging", "Open", "open "+path)
	}
	return New(f, level, format), f, nil
}

// Discard returns a logger dropping every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
