package suggest

import (
	"testing"

	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	*Completer
	calls int
}

func (c *countingCompleter) Complete(query string, maxResults int) []Result {
	c.calls++
	return c.Completer.Complete(query, maxResults)
}

func TestResultCacheHitsAndMisses(t *testing.T) {
	cc := &countingCompleter{Completer: newCompleter(scenarioSymbols()...)}
	rc := NewResultCache(4)

	first := rc.Complete(cc, "par", 20)
	second := rc.Complete(cc, "par", 20)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cc.calls)

	rc.Complete(cc, "par", 10)
	assert.Equal(t, 2, cc.calls)

	stats := rc.Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 2, stats["cacheMisses"])
	assert.Equal(t, 2, stats["cacheEntries"])
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	rc := NewResultCache(2)
	rc.Put("a", 1, []Result{{Suggestion: "a"}})
	rc.Put("b", 1, []Result{{Suggestion: "b"}})

	_, ok := rc.Get("a", 1)
	require.True(t, ok)

	rc.Put("c", 1, []Result{{Suggestion: "c"}})

	_, ok = rc.Get("b", 1)
	assert.False(t, ok)
	_, ok = rc.Get("a", 1)
	assert.True(t, ok)
	_, ok = rc.Get("c", 1)
	assert.True(t, ok)
}

func TestResultCacheDisabledAndReset(t *testing.T) {
	off := NewResultCache(0)
	off.Put("a", 1, []Result{{Suggestion: "a"}})
	_, ok := off.Get("a", 1)
	assert.False(t, ok)

	rc := NewResultCache(8)
	rc.Put("a", 1, []Result{{Suggestion: "a", Kind: symbol.Function}})
	rc.Reset()
	_, ok = rc.Get("a", 1)
	assert.False(t, ok)
	assert.Zero(t, rc.Stats()["cacheEntries"])
}
