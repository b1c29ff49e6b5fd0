// Package export writes symbol lists in formats consumed by other tools:
// JSON documents, LSP symbol information, ctags files and SQLite databases.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/symserve/pkg/extract"
	"github.com/bastiangx/symserve/pkg/symbol"
)

// Generator is written into document metadata.
const Generator = "symserve"

// Format names accepted by Write.
const (
	FormatJSON       = "json"
	FormatCompact    = "compact"
	FormatByLanguage = "by-language"
	FormatStats      = "stats"
	FormatLSP        = "lsp"
	FormatCtags      = "ctags"
)

// Formats lists every format Write accepts.
var Formats = []string{FormatJSON, FormatCompact, FormatByLanguage, FormatStats, FormatLSP, FormatCtags}

// Meta describes the export document.
type Meta struct {
	Version      string    `json:"version"`
	Generator    string    `json:"generator"`
	Timestamp    time.Time `json:"timestamp"`
	Project      string    `json:"project"`
	TotalSymbols int       `json:"total_symbols"`
}

type record struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Context  string `json:"context"`
	Language string `json:"language"`
}

type compactRecord struct {
	N string `json:"n"`
	K string `json:"k"`
	F string `json:"f"`
	L int    `json:"l"`
}

// Exporter renders symbol lists. The registry maps files to languages.
type Exporter struct {
	registry *extract.Registry
	version  string
	project  string
	now      func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRegistry sets the registry used to tag languages.
func WithRegistry(r *extract.Registry) Option {
	return func(e *Exporter) { e.registry = r }
}

// WithProject sets the project name written into metadata.
func WithProject(name string) Option {
	return func(e *Exporter) { e.project = name }
}

// WithVersion sets the version written into metadata.
func WithVersion(v string) Option {
	return func(e *Exporter) { e.version = v }
}

// WithClock overrides the metadata timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New returns an exporter using the default registry.
func New(opts ...Option) *Exporter {
	e := &Exporter{version: "dev", now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = extract.DefaultRegistry()
	}
	return e
}

func (e *Exporter) meta(total int) Meta {
	return Meta{
		Version:      e.version,
		Generator:    Generator,
		Timestamp:    e.now().UTC(),
		Project:      e.project,
		TotalSymbols: total,
	}
}

func (e *Exporter) record(s symbol.Symbol) record {
	return record{
		Name:     s.Name,
		Kind:     s.Kind.String(),
		File:     s.File,
		Line:     s.Line,
		Context:  s.Context,
		Language: e.registry.Language(s.File),
	}
}

func (e *Exporter) records(symbols []symbol.Symbol) []record {
	out := make([]record, len(symbols))
	for i, s := range symbols {
		out[i] = e.record(s)
	}
	return out
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// Write renders symbols in the named format.
func (e *Exporter) Write(w io.Writer, format string, symbols []symbol.Symbol) error {
	switch format {
	case FormatJSON, "":
		return e.JSON(w, symbols)
	case FormatCompact:
		return e.Compact(w, symbols)
	case FormatByLanguage:
		return e.ByLanguage(w, symbols)
	case FormatStats:
		return e.WithStats(w, symbols)
	case FormatLSP:
		return WorkspaceSymbols(w, symbols, "")
	case FormatCtags:
		return Ctags(w, symbols)
	}
	return fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// JSON writes metadata plus the full symbol list.
func (e *Exporter) JSON(w io.Writer, symbols []symbol.Symbol) error {
	return encode(w, struct {
		Metadata Meta     `json:"metadata"`
		Symbols  []record `json:"symbols"`
	}{e.meta(len(symbols)), e.records(symbols)})
}

// Compact writes a bare array of {n,k,f,l} objects.
func (e *Exporter) Compact(w io.Writer, symbols []symbol.Symbol) error {
	out := make([]compactRecord, len(symbols))
	for i, s := range symbols {
		out[i] = compactRecord{N: s.Name, K: s.Kind.String(), F: s.File, L: s.Line}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// ByLanguage writes an object mapping language to its symbols, each list in
// input order.
func (e *Exporter) ByLanguage(w io.Writer, symbols []symbol.Symbol) error {
	groups := make(map[string][]record)
	for _, s := range symbols {
		r := e.record(s)
		groups[r.Language] = append(groups[r.Language], r)
	}
	return encode(w, groups)
}

// Stats counts symbols per kind and language.
type Stats struct {
	Kinds     map[string]int `json:"kinds"`
	Languages map[string]int `json:"languages"`
	Files     int            `json:"files"`
}

// Count builds Stats for symbols.
func (e *Exporter) Count(symbols []symbol.Symbol) Stats {
	st := Stats{Kinds: map[string]int{}, Languages: map[string]int{}}
	files := map[string]struct{}{}
	for _, s := range symbols {
		st.Kinds[s.Kind.String()]++
		st.Languages[e.registry.Language(s.File)]++
		files[s.File] = struct{}{}
	}
	st.Files = len(files)
	return st
}

// WithStats writes metadata, per-kind and per-language counts and the
// symbol list.
func (e *Exporter) WithStats(w io.Writer, symbols []symbol.Symbol) error {
	return encode(w, struct {
		Metadata   Meta     `json:"metadata"`
		Statistics Stats    `json:"statistics"`
		Symbols    []record `json:"symbols"`
	}{e.meta(len(symbols)), e.Count(symbols), e.records(symbols)})
}

// Languages returns the sorted distinct languages of symbols.
func (e *Exporter) Languages(symbols []symbol.Symbol) []string {
	set := map[string]struct{}{}
	for _, s := range symbols {
		set[e.registry.Language(s.File)] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}
