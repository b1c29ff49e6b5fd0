package index

import (
	"slices"
	"strings"

	"github.com/bastiangx/symserve/pkg/fuzzy"
	"github.com/bastiangx/symserve/pkg/symbol"
)

// Search tiers, best first. Edit-distance matches rank at TierEdit+distance.
const (
	TierExact     = 0
	TierPrefix    = 1
	TierSubstring = 2
	TierEdit      = 10

	// MaxEditDistance is the largest distance a near miss may have.
	MaxEditDistance = 3
)

type tiered struct {
	sym  symbol.Symbol
	tier int
}

// Tier ranks name against query, returning false when name does not match
// at all. Near misses must be within MaxEditDistance and strictly closer than
// the query's length.
func Tier(name, query string) (int, bool) {
	switch {
	case name == query:
		return TierExact, true
	case hasPrefixFold(name, query):
		return TierPrefix, true
	case strings.Contains(name, query):
		return TierSubstring, true
	}
	d := fuzzy.DistanceFold(name, query)
	if d <= MaxEditDistance && d < len(query) {
		return TierEdit + d, true
	}
	return 0, false
}

// FuzzySearch returns matching symbols ordered by tier: exact, then
// case-insensitive prefix, then substring, then near misses by edit
// distance. Symbols within a tier keep store order.
func (s *Store) FuzzySearch(query string) []symbol.Symbol {
	var matches []tiered
	for _, sym := range s.symbols {
		if tier, ok := Tier(sym.Name, query); ok {
			matches = append(matches, tiered{sym, tier})
		}
	}
	slices.SortStableFunc(matches, func(a, b tiered) int {
		return a.tier - b.tier
	})

	out := make([]symbol.Symbol, len(matches))
	for i, m := range matches {
		out[i] = m.sym
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	return len(prefix) <= len(s) && strings.EqualFold(s[:len(prefix)], prefix)
}
