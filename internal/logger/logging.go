// Package logger builds charmbracelet/log loggers for the symserve packages.
// Loggers write to stderr so stdout stays free for the IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a component logger that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Discard returns a logger that drops everything, for tests and embedding.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
