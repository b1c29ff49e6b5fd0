package suggest

import (
	"maps"

	"github.com/bastiangx/symserve/pkg/symbol"
)

// Default tuning values.
const (
	DefaultMaxResults      = 20
	DefaultFuzzyThreshold  = 0.3
	DefaultPrefixWeight    = 1.0
	DefaultSubstringWeight = 0.5
	DefaultFuzzyWeight     = 0.7

	// maxResults is divided by these to cap each candidate pool
	DefaultPrefixPool    = 2
	DefaultSubstringPool = 3
	DefaultFuzzyPool     = 2
)

const (
	callableBoost   = 1.2
	typeBoost       = 1.1
	frequencyBoost  = 1.05
	shortNameBoost  = 1.1
	longNamePenalty = 0.9
	shortNameLen    = 5
	longNameLen     = 20
)

// Options tunes scoring and pool sizes.
type Options struct {
	// FuzzyThreshold is the minimum blended score a fuzzy candidate needs
	// before boosts.
	FuzzyThreshold float64

	PrefixWeight    float64
	SubstringWeight float64
	FuzzyWeight     float64

	// KindBoosts multiplies base scores per kind. Missing kinds use 1.0.
	KindBoosts map[symbol.Kind]float64

	// PrefixPool, SubstringPool and FuzzyPool divide maxResults into the
	// per-mode caps used by Complete. Values below 1 use the defaults.
	PrefixPool    int
	SubstringPool int
	FuzzyPool     int
}

// DefaultKindBoosts favours generic and JS, Python and Go callables, then
// their class and struct declarations. Other kinds score unboosted unless
// configured through kind_boosts.
func DefaultKindBoosts() map[symbol.Kind]float64 {
	return map[symbol.Kind]float64{
		symbol.Function:   callableBoost,
		symbol.JSFunction: callableBoost,
		symbol.PyFunction: callableBoost,
		symbol.GoFunction: callableBoost,
		symbol.Class:      typeBoost,
		symbol.JSClass:    typeBoost,
		symbol.PyClass:    typeBoost,
		symbol.GoStruct:   typeBoost,
	}
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold:  DefaultFuzzyThreshold,
		PrefixWeight:    DefaultPrefixWeight,
		SubstringWeight: DefaultSubstringWeight,
		FuzzyWeight:     DefaultFuzzyWeight,
		KindBoosts:      DefaultKindBoosts(),
		PrefixPool:      DefaultPrefixPool,
		SubstringPool:   DefaultSubstringPool,
		FuzzyPool:       DefaultFuzzyPool,
	}
}

// IsZero reports whether o is the zero Options, which callers treat as
// "use DefaultOptions".
func (o Options) IsZero() bool {
	return o.FuzzyThreshold == 0 &&
		o.PrefixWeight == 0 && o.SubstringWeight == 0 && o.FuzzyWeight == 0 &&
		o.KindBoosts == nil &&
		o.PrefixPool == 0 && o.SubstringPool == 0 && o.FuzzyPool == 0
}

func (o Options) normalized() Options {
	if o.PrefixPool < 1 {
		o.PrefixPool = DefaultPrefixPool
	}
	if o.SubstringPool < 1 {
		o.SubstringPool = DefaultSubstringPool
	}
	if o.FuzzyPool < 1 {
		o.FuzzyPool = DefaultFuzzyPool
	}
	if o.KindBoosts == nil {
		o.KindBoosts = DefaultKindBoosts()
	} else {
		o.KindBoosts = maps.Clone(o.KindBoosts)
	}
	return o
}
