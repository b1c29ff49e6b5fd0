package fuzzy

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

// check if our lev distance impl returns correct distance int
func TestDistance(t *testing.T) {
	testCases := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"book", "back", 2},
		{"book", "books", 1},
		{"hello", "hallo", 1},
		{"Hello", "hello", 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			if dist := Distance(tc.a, tc.b); dist != tc.expected {
				t.Errorf("Expected distance %d, got %d", tc.expected, dist)
			}
			if dist := Distance(tc.b, tc.a); dist != tc.expected {
				t.Errorf("distance not symmetric: %d vs %d", dist, tc.expected)
			}
		})
	}
}

func TestDistanceFold(t *testing.T) {
	assert.Equal(t, 0, DistanceFold("Parser", "parser"))
	assert.Equal(t, 1, DistanceFold("PARSE", "parsed"))
}

func TestDistanceIdentity(t *testing.T) {
	for _, s := range []string{"", "x", "parseFile", "snake_case_name", "ünïcödé"} {
		assert.Equal(t, 0, Distance(s, s), s)
		assert.InDelta(t, 1.0, LevenshteinScore(s, s), eps, s)
	}
}

func TestLevenshteinScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"", "abc", 0.0},
		{"abc", "", 0.0},
		{"Symbol", "symbol", 1.0},
		{"kitten", "sitting", 1.0 - 3.0/7.0},
		{"abcd", "wxyz", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, LevenshteinScore(tt.a, tt.b), eps)
		})
	}
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Symbol", "symbol", 1.0},
		{"", "", 1.0},
		{"abc", "", 0.0},
		{"abc", "xyz", 0.0},
		// classic reference values
		{"martha", "marhta", 0.9611111111},
		{"dwayne", "duane", 0.84},
		{"dixon", "dicksonx", 0.8133333333},
		// window of zero for two-byte strings: only aligned bytes match
		{"ab", "ba", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, JaroWinkler(tt.a, tt.b), 1e-6)
		})
	}
}

func TestLCSRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "a", 0.0},
		{"abc", "", 0.0},
		{"Symbol", "symbol", 1.0},
		{"abcdef", "ace", 0.5},
		{"parse", "pars", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, LCSRatio(tt.a, tt.b), eps)
		})
	}
}

func TestScore(t *testing.T) {
	// case-differing identical names score 1 on every component
	assert.InDelta(t, 1.0, Score("symbol", "Symbol"), eps)
	assert.Equal(t, 0.0, Score("", "x"))
	assert.Equal(t, 0.0, Score("x", ""))

	want := LevenshteinScore("parseFile", "prsfile")*0.4 +
		JaroWinkler("parseFile", "prsfile")*0.4 +
		LCSRatio("parseFile", "prsfile")*0.2
	assert.InDelta(t, want, Score("parseFile", "prsfile"), eps)
}

func TestScoresStayInUnitRange(t *testing.T) {
	words := []string{"", "a", "ab", "ba", "parse", "parseFile", "ParseLine", "xyz", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "crème"}
	for _, a := range words {
		for _, b := range words {
			for name, f := range map[string]func(string, string) float64{
				"levenshtein": LevenshteinScore,
				"jaro":        JaroWinkler,
				"lcs":         LCSRatio,
				"score":       Score,
			} {
				v := f(a, b)
				if v < 0 || v > 1+eps || math.IsNaN(v) {
					t.Errorf("%s(%q, %q) = %v out of [0,1]", name, a, b, v)
				}
			}
		}
	}
}

func TestMatchPositions(t *testing.T) {
	tests := []struct {
		pattern, candidate string
		ok                 bool
		indexes            []int
	}{
		{"pf", "parseFile", true, []int{0, 5}},
		{"PF", "parseFile", true, []int{0, 5}},
		{"par", "Parser", true, []int{0, 1, 2}},
		{"xyz", "Parser", false, nil},
		{"", "Parser", false, nil},
		{"ln", "parse_line", true, []int{6, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.candidate, func(t *testing.T) {
			m, ok := MatchPositions(tt.pattern, tt.candidate)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.indexes, m.MatchedIndexes)
			}
		})
	}
}

func TestMatchPositionsPrefersEarlyAdjacent(t *testing.T) {
	a, _ := MatchPositions("par", "parser")
	b, _ := MatchPositions("par", "xpxaxr")
	assert.Greater(t, a.Score, b.Score)
}

func BenchmarkScore(b *testing.B) {
	inputs := []string{"prsfile", "parse", "Parser", "handleRequest", "cfg"}
	for i := 0; i < b.N; i++ {
		Score("parseFileContents", inputs[i%len(inputs)])
	}
}
