package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Constants for scoring
const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
)

// Match is a subsequence match of a pattern inside a candidate.
// MatchedIndexes are rune offsets into the candidate.
type Match struct {
	Str            string
	Score          int
	MatchedIndexes []int
}

// MatchPositions reports whether every rune of pattern appears in candidate
// in order (case-insensitively), and where. Used to highlight completions.
func MatchPositions(pattern, candidate string) (Match, bool) {
	match := Match{Str: candidate}
	if pattern == "" {
		return match, false
	}
	patternRunes := []rune(pattern)
	match.MatchedIndexes = make([]int, 0, len(patternRunes))
	if !runFuzzyMatch(patternRunes, []rune(candidate), &match) {
		return match, false
	}
	match.Score += len(match.MatchedIndexes) - utf8.RuneCountInString(candidate)
	return match, true
}

// runFuzzyMatch walks candidate once, committing each pattern rune at its
// first in-order occurrence and scoring the position it landed on.
func runFuzzyMatch(pattern []rune, candidate []rune, match *Match) bool {
	patternIndex := 0
	adjacent := 0

	for i := 0; i < len(candidate) && patternIndex < len(pattern); i++ {
		curr := candidate[i]
		if !equalFold(curr, pattern[patternIndex]) {
			continue
		}

		score := 0
		if i == 0 {
			score += firstCharMatchBonus
		}
		if i > 0 {
			last := candidate[i-1]
			if unicode.IsLower(last) && unicode.IsUpper(curr) {
				score += camelCaseMatchBonus
			}
			if isSeparator(last) {
				score += separatorMatchBonus
			}
		}

		if n := len(match.MatchedIndexes); n > 0 && match.MatchedIndexes[n-1] == i-1 {
			adjacent = adjacent*2 + adjacentMatchBonus
			score += adjacent
		} else {
			adjacent = 0
		}

		if len(match.MatchedIndexes) == 0 {
			score += max(i*unmatchedLeadingCharPenalty, maxUnmatchedLeadingCharPenalty)
		}

		match.Score += score
		match.MatchedIndexes = append(match.MatchedIndexes, i)
		patternIndex++
	}
	return patternIndex >= len(pattern)
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/' || r == ':'
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	return strings.EqualFold(string(a), string(b))
}
