// Package index holds the symbol store: an insertion-ordered collection of
// symbols built from a file list, searchable by exact name or by tiered
// fuzzy matching.
//
// A Store performs no locking. Build a fresh Store off the query path and
// publish it once complete; see package engine.
package index

import (
	"runtime"
	"slices"
	"strings"

	"github.com/bastiangx/symserve/pkg/extract"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Store is the symbol store.
type Store struct {
	symbols   []symbol.Symbol
	byName    map[string][]int
	extractor *extract.Extractor
	workers   int
	logger    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithExtractor sets the extractor used by BuildIndex.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Store) { s.extractor = e }
}

// WithWorkers bounds concurrent file extraction. Values below 1 mean
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Store) { s.workers = n }
}

// WithLogger sets the logger for build progress.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byName: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = extract.New()
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// BuildIndex clears the store and extracts every file. Files are processed
// in parallel but merged in the given order, so symbols stay ordered by
// file, then line, then match order within a line. Unreadable files
// contribute nothing.
func (s *Store) BuildIndex(files []string) {
	s.Clear()

	results := make([][]symbol.Symbol, len(files))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = slices.Collect(s.extractor.File(path))
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	s.symbols = slices.Grow(s.symbols, total)
	for _, r := range results {
		for _, sym := range r {
			s.AddSymbol(sym)
		}
	}
	s.logger.Debugf("indexed %d symbols from %d files", len(s.symbols), len(files))
}

// AddSymbol appends sym to the store.
func (s *Store) AddSymbol(sym symbol.Symbol) {
	key := strings.ToLower(sym.Name)
	s.byName[key] = append(s.byName[key], len(s.symbols))
	s.symbols = append(s.symbols, sym)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.symbols = nil
	s.byName = make(map[string][]int)
}

// Size returns the number of stored symbols.
func (s *Store) Size() int {
	return len(s.symbols)
}

// Symbols returns a copy of the stored symbols in store order.
func (s *Store) Symbols() []symbol.Symbol {
	return slices.Clone(s.symbols)
}

// Occurrences counts stored symbols whose name matches name case-insensitively.
func (s *Store) Occurrences(name string) int {
	return len(s.byName[strings.ToLower(name)])
}

// Search dispatches to FuzzySearch or ExactSearch.
func (s *Store) Search(query string, fuzzy bool) []symbol.Symbol {
	if fuzzy {
		return s.FuzzySearch(query)
	}
	return s.ExactSearch(query)
}

// ExactSearch returns every symbol named exactly query, case-sensitively, in
// store order.
func (s *Store) ExactSearch(query string) []symbol.Symbol {
	var out []symbol.Symbol
	for _, sym := range s.symbols {
		if sym.Name == query {
			out = append(out, sym)
		}
	}
	return out
}
