package suggest

import (
	"strings"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// prefixScore favours names that add little beyond the typed prefix.
func prefixScore(name, prefix string) float64 {
	if name == "" || prefix == "" {
		return 0.0
	}
	if len(prefix) <= len(name) && strings.EqualFold(name[:len(prefix)], prefix) {
		return 1.0 - float64(len(name)-len(prefix))/float64(len(name))*0.1
	}
	return 0.5
}

// substringScore rewards early and proportionally long matches. pos is the
// byte offset of the match in the lowercased name.
func substringScore(name, sub string, pos int) float64 {
	if name == "" || sub == "" {
		return 0.0
	}
	if pos < 0 {
		return 0.5
	}
	positionBonus := 1.0 - float64(pos)/float64(len(name))*0.3
	lengthRatio := float64(len(sub)) / float64(len(name))
	return positionBonus * lengthRatio
}

// boost runs a base score through the kind, frequency and length multipliers
// and clamps the result to 1.
func (c *Completer) boost(sym symbol.Symbol, score float64) float64 {
	if b, ok := c.opts.KindBoosts[sym.Kind]; ok {
		score *= b
	}
	if len(c.byName[strings.ToLower(sym.Name)]) > 1 {
		score *= frequencyBoost
	}
	switch n := len(sym.Name); {
	case n <= shortNameLen:
		score *= shortNameBoost
	case n >= longNameLen:
		score *= longNamePenalty
	}
	return min(score, 1.0)
}
