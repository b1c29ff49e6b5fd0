package utils

import (
	"strings"
	"unicode"
)

// MaxQueryLength bounds interactive and IPC queries.
const MaxQueryLength = 256

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidQuery checks if a query should be sent to the completer.
// Rejects empty or overlong input, control characters and pure numbers.
func IsValidQuery(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxQueryLength {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// NormalizeQuery trims surrounding whitespace from a query.
func NormalizeQuery(s string) string {
	return strings.TrimSpace(s)
}
