package suggest

import (
	"slices"
	"strings"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/fuzzy"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
)

// MatchType names the mode that produced a Result.
type MatchType string

const (
	MatchPrefix    MatchType = "prefix"
	MatchSubstring MatchType = "substring"
	MatchFuzzy     MatchType = "fuzzy"
)

// Result is one ranked completion.
type Result struct {
	Suggestion string      `json:"suggestion"`
	Kind       symbol.Kind `json:"kind"`
	File       string      `json:"file"`
	Line       int         `json:"line"`
	Score      float64     `json:"score"`
	Context    string      `json:"context"`
	MatchType  MatchType   `json:"match_type"`
}

// Key identifies the symbol occurrence a result points at.
func (r Result) Key() string {
	return symbol.Symbol{Name: r.Suggestion, File: r.File, Line: r.Line}.Key()
}

// Completer is the autocomplete index. It is not safe for concurrent
// mutation; queries on a fully built Completer may run concurrently.
type Completer struct {
	trie    *nameTrie
	symbols []symbol.Symbol
	byName  map[string][]int
	opts    Options
	logger  *log.Logger
}

// Option configures a Completer.
type Option func(*Completer)

// WithOptions sets the scoring options.
func WithOptions(o Options) Option {
	return func(c *Completer) { c.opts = o.normalized() }
}

// WithLogger sets the logger used for build messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Completer) { c.logger = l }
}

// NewCompleter returns an empty index with default options.
func NewCompleter(opts ...Option) *Completer {
	c := &Completer{
		trie:   newNameTrie(),
		byName: make(map[string][]int),
		opts:   DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Options returns a copy of the current options.
func (c *Completer) Options() Options {
	return c.opts.normalized()
}

// SetOptions replaces the scoring options.
func (c *Completer) SetOptions(o Options) {
	c.opts = o.normalized()
}

// BuildIndex clears the index and indexes symbols in order.
func (c *Completer) BuildIndex(symbols []symbol.Symbol) {
	c.Clear()
	c.symbols = slices.Grow(c.symbols, len(symbols))
	for _, sym := range symbols {
		c.AddSymbol(sym)
	}
	c.logger.Debugf("Autocomplete index built: %d symbols, %d names", len(c.symbols), c.trie.keys)
}

// AddSymbol indexes one more symbol.
func (c *Completer) AddSymbol(sym symbol.Symbol) {
	pos := len(c.symbols)
	c.symbols = append(c.symbols, sym)
	lower := strings.ToLower(sym.Name)
	c.trie.insert(lower, pos)
	c.byName[lower] = append(c.byName[lower], pos)
}

// Clear drops every indexed symbol.
func (c *Completer) Clear() {
	c.trie = newNameTrie()
	c.symbols = nil
	c.byName = make(map[string][]int)
}

// Size returns the number of indexed symbols.
func (c *Completer) Size() int {
	return len(c.symbols)
}

// Complete merges prefix, substring and fuzzy candidates for query into one
// list sorted by descending score, without duplicate occurrences. Each pool
// is capped at maxResults divided by its pool divisor before merging, so very
// small limits can yield nothing. An empty query returns nil. maxResults <= 0
// uses DefaultMaxResults.
func (c *Completer) Complete(query string, maxResults int) []Result {
	if query == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	prefix := c.PrefixMatches(query, maxResults/c.opts.PrefixPool)
	substring := c.SubstringMatches(query, maxResults/c.opts.SubstringPool)
	fz := c.FuzzyMatches(query, maxResults/c.opts.FuzzyPool, c.opts.FuzzyThreshold)

	results := make([]Result, 0, len(prefix)+len(substring)+len(fz))
	results = appendWeighted(results, prefix, c.opts.PrefixWeight)
	results = appendWeighted(results, substring, c.opts.SubstringWeight)
	results = appendWeighted(results, fz, c.opts.FuzzyWeight)

	filter := utils.NewResultFilter()
	results = slices.DeleteFunc(results, func(r Result) bool {
		return !filter.ShouldInclude(r.Key())
	})
	return sortAndLimit(results, maxResults)
}

// PrefixMatches returns symbols whose lowercased name starts with the
// lowercased prefix, in store order. A negative maxResults means no limit.
func (c *Completer) PrefixMatches(prefix string, maxResults int) []Result {
	positions := c.trie.positions(strings.ToLower(prefix), maxResults)
	results := make([]Result, 0, len(positions))
	for _, pos := range positions {
		sym := c.symbols[pos]
		results = append(results, c.result(sym, prefixScore(sym.Name, prefix), MatchPrefix))
	}
	return results
}

// SubstringMatches scans every symbol for a case-insensitive occurrence of
// sub and returns the best maxResults by score. A negative maxResults means
// no limit.
func (c *Completer) SubstringMatches(sub string, maxResults int) []Result {
	lowerSub := strings.ToLower(sub)
	var results []Result
	for _, sym := range c.symbols {
		pos := strings.Index(strings.ToLower(sym.Name), lowerSub)
		if pos < 0 {
			continue
		}
		results = append(results, c.result(sym, substringScore(sym.Name, sub, pos), MatchSubstring))
	}
	return sortAndLimit(results, maxResults)
}

// FuzzyMatches scores every symbol with the blended similarity and keeps
// those reaching minScore, best first. A negative maxResults means no limit.
func (c *Completer) FuzzyMatches(query string, maxResults int, minScore float64) []Result {
	var results []Result
	for _, sym := range c.symbols {
		score := fuzzy.Score(sym.Name, query)
		if score < minScore {
			continue
		}
		results = append(results, c.result(sym, score, MatchFuzzy))
	}
	return sortAndLimit(results, maxResults)
}

// Stats returns statistics about the index
func (c *Completer) Stats() map[string]int {
	return map[string]int{
		"totalSymbols": len(c.symbols),
		"uniqueNames":  len(c.byName),
		"trieKeys":     c.trie.keys,
		"kindBoosts":   len(c.opts.KindBoosts),
	}
}

func (c *Completer) result(sym symbol.Symbol, base float64, mt MatchType) Result {
	return Result{
		Suggestion: sym.Name,
		Kind:       sym.Kind,
		File:       sym.File,
		Line:       sym.Line,
		Score:      c.boost(sym, base),
		Context:    sym.Context,
		MatchType:  mt,
	}
}

func appendWeighted(dst, src []Result, weight float64) []Result {
	for _, r := range src {
		r.Score *= weight
		dst = append(dst, r)
	}
	return dst
}

// sortAndLimit orders by descending score, keeping input order among ties.
func sortAndLimit(results []Result, limit int) []Result {
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
