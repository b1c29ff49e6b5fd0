// Package report is the optional error and telemetry sink fed by symbol
// extraction. Indexing behaves identically with or without a Reporter.
package report

import (
	"time"

	"github.com/charmbracelet/log"
)

// Reporter receives per-file extraction events. Implementations must be safe
// for concurrent use; files are extracted in parallel.
type Reporter interface {
	// FileError is called when a file cannot be opened or read.
	FileError(path, message string)
	// FileParsed is called once a file has been fully scanned, with the
	// time spent reading and classifying it.
	FileParsed(path string, symbols int, language string, elapsed time.Duration)
}

// Nop discards every event.
type Nop struct{}

func (Nop) FileError(string, string)                      {}
func (Nop) FileParsed(string, int, string, time.Duration) {}

// LogReporter writes events to a charm logger: failures at warn, parsed files
// at debug.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter returns a LogReporter writing to logger, or to the default
// logger when nil.
func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) FileError(path, message string) {
	r.logger.Warn("skipping file", "path", path, "err", message)
}

func (r *LogReporter) FileParsed(path string, symbols int, language string, elapsed time.Duration) {
	r.logger.Debug("parsed", "path", path, "symbols", symbols, "lang", language, "took", elapsed)
}

type multi []Reporter

// Multi fans every event out to each non-nil reporter in order.
func Multi(reporters ...Reporter) Reporter {
	out := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) FileError(path, message string) {
	for _, r := range m {
		r.FileError(path, message)
	}
}

func (m multi) FileParsed(path string, symbols int, language string, elapsed time.Duration) {
	for _, r := range m {
		r.FileParsed(path, symbols, language, elapsed)
	}
}
