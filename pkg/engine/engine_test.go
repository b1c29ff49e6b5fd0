package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bastiangx/symserve/internal/logger"
	"github.com/bastiangx/symserve/pkg/discover"
	"github.com/bastiangx/symserve/pkg/extract"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"main.go":       "package main\n\nfunc parseFlags() {}\n\nfunc (s *Server) ParseRequest() {}\n",
		"lib/util.py":   "class Parser:\n    def parse_line(self):\n        pass\n",
		"web/app.js":    "function parseQuery(q) {}\nconst renderPage = () => {}\n",
		"vendor/x/x.go": "package x\n\nfunc parseVendored() {}\n",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func newEngine(root string) *Engine {
	return New(Config{Root: root, Discover: discover.DefaultOptions()}, WithLogger(logger.Discard()))
}

func TestRebuildPublishesSnapshot(t *testing.T) {
	root := project(t)
	e := newEngine(root)
	assert.Zero(t, e.Stats().Symbols)
	assert.Empty(t, e.Complete("parse", 10))

	snap, err := e.Rebuild()
	require.NoError(t, err)
	assert.Same(t, snap, e.Snapshot())
	assert.Len(t, snap.Files, 3)

	exact := e.Search("parseFlags", false)
	require.Len(t, exact, 1)
	assert.Equal(t, symbol.GoFunction, exact[0].Kind)
	assert.Empty(t, e.Search("parseVendored", false))

	names := map[string]bool{}
	for _, r := range e.Complete("parse", 20) {
		names[r.Suggestion] = true
	}
	assert.True(t, names["parseFlags"])
	assert.True(t, names["parseQuery"])
	assert.True(t, names["parse_line"])

	stats := e.Stats()
	assert.Equal(t, 3, stats.Files)
	assert.Positive(t, stats.Symbols)
	assert.Contains(t, stats.Languages, extract.LangGo)
	assert.Contains(t, stats.Languages, extract.LangPython)
	assert.Positive(t, stats.FilesPerSecond)
	require.Len(t, stats.Slowest, 3)
	assert.GreaterOrEqual(t, stats.Slowest[0].Elapsed, stats.Slowest[2].Elapsed)
}

func TestRebuildMissingRootKeepsSnapshot(t *testing.T) {
	root := project(t)
	e := newEngine(root)
	before, err := e.Rebuild()
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))
	_, err = e.Rebuild()
	assert.Error(t, err)
	assert.Same(t, before, e.Snapshot())
}

func TestRebuildPicksUpChanges(t *testing.T) {
	root := project(t)
	e := newEngine(root)
	_, err := e.Rebuild()
	require.NoError(t, err)
	assert.Empty(t, e.Search("tokenize", false))

	// warm the cache so a stale result would be visible
	e.Complete("tokenize", 10)

	require.NoError(t, os.WriteFile(filepath.Join(root, "tok.go"), []byte("package main\nfunc tokenize() {}\n"), 0o644))
	_, err = e.Rebuild()
	require.NoError(t, err)
	assert.Len(t, e.Search("tokenize", false), 1)
	require.NotEmpty(t, e.Complete("tokenize", 10))
	assert.Equal(t, "tokenize", e.Complete("tokenize", 10)[0].Suggestion)
}

func TestConcurrentQueriesDuringRebuild(t *testing.T) {
	root := project(t)
	e := newEngine(root)
	_, err := e.Rebuild()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				snap := e.Snapshot()
				for _, r := range snap.Complete("parse", 10) {
					assert.LessOrEqual(t, r.Score, 1.0)
				}
				snap.Store.Search("pars", true)
			}
		}()
	}
	for range 5 {
		_, err := e.Rebuild()
		assert.NoError(t, err)
	}
	wg.Wait()
}

func TestPublish(t *testing.T) {
	e := newEngine(t.TempDir())
	e.Publish([]symbol.Symbol{
		{Name: "loadIndex", Kind: symbol.Function, File: "a.c", Line: 1},
		{Name: "loadIndex", Kind: symbol.Function, File: "b.c", Line: 2},
	})

	assert.Equal(t, 2, e.Stats().Symbols)
	assert.Equal(t, 1, e.Stats().UniqueNames)
	assert.Len(t, e.Complete("load", 10), 2)
}

func TestRebuildFiles(t *testing.T) {
	root := project(t)
	e := newEngine(root)
	snap := e.RebuildFiles([]string{filepath.Join(root, "web", "app.js"), filepath.Join(root, "missing.js")})

	assert.Equal(t, 1, snap.Build.Files)
	assert.Equal(t, 1, snap.Build.Failed)
	// the arrow function line is both a const and an arrow function
	hits := e.Search("renderPage", false)
	require.Len(t, hits, 2)
	assert.ElementsMatch(t, []symbol.Kind{symbol.JSArrowFunction, symbol.JSConst}, []symbol.Kind{hits[0].Kind, hits[1].Kind})
}

func TestCompleteUsesDefaultRanking(t *testing.T) {
	e := newEngine(t.TempDir())
	assert.Equal(t, suggest.DefaultOptions(), e.Config().Complete)

	e.Publish([]symbol.Symbol{
		{Name: "parseFile", Kind: symbol.Function, File: "a.cpp", Line: 10},
		{Name: "parseLine", Kind: symbol.Function, File: "a.cpp", Line: 20},
		{Name: "Parser", Kind: symbol.Class, File: "b.cpp", Line: 5},
		{Name: "zzzqqq", Kind: symbol.Variable, File: "c.cpp", Line: 1},
	})

	results := e.Complete("Par", 20)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, suggest.MatchPrefix, r.MatchType, r.Suggestion)
		assert.InDelta(t, 1.0, r.Score, 1e-9, r.Suggestion)
	}
}

func TestCustomRankingIsKept(t *testing.T) {
	opts := suggest.DefaultOptions()
	opts.PrefixWeight = 0.5
	e := New(Config{Root: t.TempDir(), Complete: opts}, WithLogger(logger.Discard()))
	assert.Equal(t, 0.5, e.Config().Complete.PrefixWeight)
}
