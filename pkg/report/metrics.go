package report

import (
	"cmp"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultSlowest is how many of the slowest files a Snapshot keeps.
const DefaultSlowest = 5

// LanguageStats aggregates per-language counts.
type LanguageStats struct {
	Files   int `json:"files"`
	Symbols int `json:"symbols"`
}

// FileTiming is the cost of extracting one file.
type FileTiming struct {
	Path     string        `json:"path"`
	Language string        `json:"language"`
	Symbols  int           `json:"symbols"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Files     int                      `json:"files"`
	Failed    int                      `json:"failed"`
	Symbols   int                      `json:"symbols"`
	Languages map[string]LanguageStats `json:"languages"`
	Errors    map[string]string        `json:"errors,omitempty"`
	Elapsed   time.Duration            `json:"elapsed"`

	// Slowest holds up to DefaultSlowest files, slowest first.
	Slowest          []FileTiming `json:"slowest,omitempty"`
	FilesPerSecond   float64      `json:"files_per_second"`
	SymbolsPerSecond float64      `json:"symbols_per_second"`
}

// Metrics is a Reporter that aggregates a build session.
type Metrics struct {
	mu        sync.Mutex
	start     time.Time
	end       time.Time
	files     int
	symbols   int
	languages map[string]LanguageStats
	errors    map[string]string
	timings   []FileTiming
}

// NewMetrics starts a session at the current time.
func NewMetrics() *Metrics {
	return &Metrics{
		start:     time.Now(),
		languages: make(map[string]LanguageStats),
		errors:    make(map[string]string),
	}
}

func (m *Metrics) FileError(path, message string) {
	m.mu.Lock()
	m.errors[path] = message
	m.mu.Unlock()
}

func (m *Metrics) FileParsed(path string, symbols int, language string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files++
	m.symbols += symbols
	ls := m.languages[language]
	ls.Files++
	ls.Symbols += symbols
	m.languages[language] = ls
	m.timings = append(m.timings, FileTiming{Path: path, Language: language, Symbols: symbols, Elapsed: elapsed})
}

// Finish stamps the session end. Elapsed keeps growing until it is called.
func (m *Metrics) Finish() {
	m.mu.Lock()
	m.end = time.Now()
	m.mu.Unlock()
}

// SlowestFiles returns up to n parsed files ordered by descending extraction
// time. Ties keep report order.
func (m *Metrics) SlowestFiles(n int) []FileTiming {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slowest(n)
}

func (m *Metrics) slowest(n int) []FileTiming {
	if n <= 0 || len(m.timings) == 0 {
		return nil
	}
	sorted := slices.Clone(m.timings)
	slices.SortStableFunc(sorted, func(a, b FileTiming) int {
		return cmp.Compare(b.Elapsed, a.Elapsed)
	})
	return sorted[:min(n, len(sorted))]
}

// Snapshot copies the current totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := m.end
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(m.start)
	return Snapshot{
		Files:            m.files,
		Failed:           len(m.errors),
		Symbols:          m.symbols,
		Languages:        maps.Clone(m.languages),
		Errors:           maps.Clone(m.errors),
		Elapsed:          elapsed,
		Slowest:          m.slowest(DefaultSlowest),
		FilesPerSecond:   rate(m.files, elapsed),
		SymbolsPerSecond: rate(m.symbols, elapsed),
	}
}

func rate(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

// Summary renders a one-line human readable report: totals and rates, then
// languages sorted by name, then the slowest files.
func (s Snapshot) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d files, %d symbols, %d failed in %v (%.1f files/s, %.1f symbols/s)",
		s.Files, s.Symbols, s.Failed, s.Elapsed.Round(time.Millisecond), s.FilesPerSecond, s.SymbolsPerSecond)
	for _, lang := range slices.Sorted(maps.Keys(s.Languages)) {
		ls := s.Languages[lang]
		fmt.Fprintf(&b, " | %s: %d/%d", lang, ls.Files, ls.Symbols)
	}
	if len(s.Slowest) > 0 {
		b.WriteString(" | slowest:")
		for i, ft := range s.Slowest {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, " %s %v", filepath.Base(ft.Path), ft.Elapsed.Round(time.Microsecond))
		}
	}
	return b.String()
}
