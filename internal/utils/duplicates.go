package utils

// ResultFilter drops repeated keys, keeping the first occurrence.
// It is not safe for concurrent use.
type ResultFilter struct {
	seen map[string]struct{}
}

// NewResultFilter creates an empty filter.
func NewResultFilter() *ResultFilter {
	return &ResultFilter{seen: make(map[string]struct{})}
}

// ShouldInclude reports whether key is new, recording it as seen.
// Keys are compared exactly.
func (f *ResultFilter) ShouldInclude(key string) bool {
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}
