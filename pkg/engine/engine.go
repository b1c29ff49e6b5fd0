// Package engine owns the published index. Rebuilds construct a fresh
// store and completer off the query path and swap them in atomically, so
// readers never observe a partially built index.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/symserve/pkg/discover"
	"github.com/bastiangx/symserve/pkg/extract"
	"github.com/bastiangx/symserve/pkg/index"
	"github.com/bastiangx/symserve/pkg/report"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
)

// DefaultCacheSize is the number of completion result lists kept per
// snapshot.
const DefaultCacheSize = 256

// Config describes what to index and how to rank.
type Config struct {
	Root     string
	Discover discover.Options
	Workers  int
	// Complete tunes ranking. The zero value means suggest.DefaultOptions.
	Complete suggest.Options

	// CacheSize bounds the completion result cache. Negative disables it.
	CacheSize int
}

// Snapshot is one immutable published index.
type Snapshot struct {
	Store     *index.Store
	Completer *suggest.Completer
	Files     []string
	Build     report.Snapshot
	BuiltAt   time.Time

	cache *suggest.ResultCache
}

// Stats summarises a snapshot.
type Stats struct {
	Symbols     int            `json:"symbols"`
	UniqueNames int            `json:"unique_names"`
	Files       int            `json:"files"`
	Failed      int            `json:"failed"`
	Languages   map[string]int `json:"languages"`
	Duration    time.Duration  `json:"duration"`
	BuiltAt     time.Time      `json:"built_at"`
	Cache       map[string]int `json:"cache"`

	FilesPerSecond   float64             `json:"files_per_second"`
	SymbolsPerSecond float64             `json:"symbols_per_second"`
	Slowest          []report.FileTiming `json:"slowest,omitempty"`
}

// Engine publishes snapshots. All methods are safe for concurrent use.
type Engine struct {
	cfg       Config
	extractor *extract.Extractor
	reporter  report.Reporter
	logger    *log.Logger

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the extractor families used by rebuilds.
func WithRegistry(r *extract.Registry) Option {
	return func(e *Engine) { e.extractor = extract.New(extract.WithRegistry(r)) }
}

// WithReporter adds a sink receiving per-file events of every rebuild.
func WithReporter(r report.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with an empty snapshot published.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = extract.New()
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.cfg.Complete.IsZero() {
		e.cfg.Complete = suggest.DefaultOptions()
	}
	if e.cfg.CacheSize == 0 {
		e.cfg.CacheSize = DefaultCacheSize
	}
	if len(e.cfg.Discover.Extensions) == 0 {
		e.cfg.Discover.Extensions = e.extractor.Registry().Extensions()
	}
	e.cfg.Discover.Logger = e.logger
	e.current.Store(e.newSnapshot(nil, nil, report.Snapshot{}))
	return e
}

// Registry returns the extractor families the engine indexes with.
func (e *Engine) Registry() *extract.Registry {
	return e.extractor.Registry()
}

// Config returns the engine configuration with defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot returns the currently published index.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Rebuild discovers files under the configured root, indexes them and
// publishes the result. Concurrent calls are serialised. On a discovery
// error the previous snapshot stays published.
func (e *Engine) Rebuild() (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	files, err := discover.Walk(e.cfg.Root, e.cfg.Discover)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	return e.build(files), nil
}

// RebuildFiles indexes exactly files and publishes the result.
func (e *Engine) RebuildFiles(files []string) *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.build(files)
}

func (e *Engine) build(files []string) *Snapshot {
	metrics := report.NewMetrics()
	reporter := report.Multi(metrics, e.reporter)
	x := extract.New(extract.WithRegistry(e.extractor.Registry()), extract.WithReporter(reporter))

	store := index.NewStore(index.WithExtractor(x), index.WithWorkers(e.cfg.Workers), index.WithLogger(e.logger))
	store.BuildIndex(files)
	metrics.Finish()

	snap := e.newSnapshot(store, files, metrics.Snapshot())
	e.current.Store(snap)
	e.logger.Infof("Index rebuilt: %s", snap.Build.Summary())
	return snap
}

// Publish replaces the index with a fixed symbol list, such as one loaded
// from an export.
func (e *Engine) Publish(symbols []symbol.Symbol) *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	store := index.NewStore(index.WithLogger(e.logger))
	for _, sym := range symbols {
		store.AddSymbol(sym)
	}
	snap := e.newSnapshot(store, nil, report.Snapshot{Symbols: len(symbols)})
	e.current.Store(snap)
	return snap
}

func (e *Engine) newSnapshot(store *index.Store, files []string, build report.Snapshot) *Snapshot {
	if store == nil {
		store = index.NewStore(index.WithLogger(e.logger))
	}
	completer := suggest.NewCompleter(suggest.WithOptions(e.cfg.Complete), suggest.WithLogger(e.logger))
	completer.BuildIndex(store.Symbols())
	return &Snapshot{
		Store:     store,
		Completer: completer,
		Files:     files,
		Build:     build,
		BuiltAt:   time.Now(),
		cache:     suggest.NewResultCache(e.cfg.CacheSize),
	}
}

// Complete ranks completions for query against the published snapshot.
func (e *Engine) Complete(query string, limit int) []suggest.Result {
	return e.Snapshot().Complete(query, limit)
}

// Search runs a store search against the published snapshot.
func (e *Engine) Search(query string, fuzzy bool) []symbol.Symbol {
	return e.Snapshot().Store.Search(query, fuzzy)
}

// Stats describes the published snapshot.
func (e *Engine) Stats() Stats {
	return e.Snapshot().Stats()
}

// Complete serves query through the snapshot's result cache.
func (s *Snapshot) Complete(query string, limit int) []suggest.Result {
	if limit <= 0 {
		limit = suggest.DefaultMaxResults
	}
	return s.cache.Complete(s.Completer, query, limit)
}

// Stats describes the snapshot.
func (s *Snapshot) Stats() Stats {
	langs := make(map[string]int, len(s.Build.Languages))
	for lang, ls := range s.Build.Languages {
		langs[lang] = ls.Symbols
	}
	return Stats{
		Symbols:     s.Store.Size(),
		UniqueNames: s.Completer.Stats()["uniqueNames"],
		Files:       s.Build.Files,
		Failed:      s.Build.Failed,
		Languages:   langs,
		Duration:    s.Build.Elapsed,
		BuiltAt:     s.BuiltAt,
		Cache:       s.cache.Stats(),

		FilesPerSecond:   s.Build.FilesPerSecond,
		SymbolsPerSecond: s.Build.SymbolsPerSecond,
		Slowest:          s.Build.Slowest,
	}
}
