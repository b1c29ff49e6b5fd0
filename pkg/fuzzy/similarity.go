package fuzzy

import "strings"

// Blend weights for Score.
const (
	LevenshteinWeight = 0.4
	JaroWinklerWeight = 0.4
	LCSWeight         = 0.2
)

const (
	winklerScale     = 0.1
	winklerMaxPrefix = 4
)

// JaroWinkler returns the case-insensitive Jaro-Winkler similarity of s1 and
// s2 in [0, 1].
func JaroWinkler(s1, s2 string) float64 {
	l1, l2 := strings.ToLower(s1), strings.ToLower(s2)
	if l1 == l2 {
		return 1.0
	}
	if len(l1) == 0 || len(l2) == 0 {
		return 0.0
	}

	window := max(len(l1), len(l2))/2 - 1
	if window < 0 {
		window = 0
	}

	m1 := make([]bool, len(l1))
	m2 := make([]bool, len(l2))
	matches := 0
	for i := 0; i < len(l1); i++ {
		start := max(0, i-window)
		end := min(i+window+1, len(l2))
		for j := start; j < end; j++ {
			if m2[j] || l1[i] != l2[j] {
				continue
			}
			m1[i], m2[j] = true, true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len(l1); i++ {
		if !m1[i] {
			continue
		}
		for !m2[k] {
			k++
		}
		if l1[i] != l2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	jaro := (m/float64(len(l1)) + m/float64(len(l2)) + float64(matches-transpositions/2)/m) / 3.0

	prefix := 0
	for i := 0; i < min(len(l1), len(l2), winklerMaxPrefix); i++ {
		if l1[i] != l2[i] {
			break
		}
		prefix++
	}
	return jaro + winklerScale*float64(prefix)*(1.0-jaro)
}

// LCSRatio returns the length of the longest common subsequence of the
// lowercased inputs divided by the longer input's length.
func LCSRatio(s1, s2 string) float64 {
	l1, l2 := strings.ToLower(s1), strings.ToLower(s2)
	if len(l1) == 0 || len(l2) == 0 {
		return 0.0
	}

	prev := make([]int, len(l2)+1)
	curr := make([]int, len(l2)+1)
	for i := 1; i <= len(l1); i++ {
		for j := 1; j <= len(l2); j++ {
			if l1[i-1] == l2[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return float64(prev[len(l2)]) / float64(max(len(l1), len(l2)))
}

// Score blends the three similarities 0.4/0.4/0.2. Either input empty
// scores 0.
func Score(target, query string) float64 {
	if target == "" || query == "" {
		return 0.0
	}
	return LevenshteinScore(target, query)*LevenshteinWeight +
		JaroWinkler(target, query)*JaroWinklerWeight +
		LCSRatio(target, query)*LCSWeight
}
