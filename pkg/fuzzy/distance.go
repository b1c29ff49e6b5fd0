// Package fuzzy implements the approximate string matching used by symbol
// search and autocomplete: edit distance, Jaro-Winkler, longest common
// subsequence and a weighted blend of the three.
//
// All measures operate on bytes. Names are lowercased with strings.ToLower
// before comparison where a function says so; multibyte input is compared
// byte by byte and carries no further guarantees.
package fuzzy

import "strings"

// Distance returns the Levenshtein edit distance between a and b, where
// insertion, deletion and substitution each cost 1. Comparison is
// case-sensitive.
func Distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// two rows are enough; prev holds row i-1
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// DistanceFold is Distance over the lowercased inputs.
func DistanceFold(a, b string) int {
	return Distance(strings.ToLower(a), strings.ToLower(b))
}

// LevenshteinScore maps the case-insensitive edit distance to a similarity
// in [0, 1]: 1 - distance/max(len). Two empty strings are identical.
func LevenshteinScore(s1, s2 string) float64 {
	l1, l2 := strings.ToLower(s1), strings.ToLower(s2)
	if len(l1) == 0 {
		if len(l2) == 0 {
			return 1.0
		}
		return 0.0
	}
	if len(l2) == 0 {
		return 0.0
	}
	d := Distance(l1, l2)
	return 1.0 - float64(d)/float64(max(len(l1), len(l2)))
}
