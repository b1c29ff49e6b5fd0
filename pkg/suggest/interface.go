// Package suggest is the autocomplete index: a patricia trie over lowercased
// symbol names plus substring and fuzzy scans, merged through a shared
// boost pipeline into one ranked list.
package suggest

import "github.com/bastiangx/symserve/pkg/symbol"

// ICompleter defines the interface for symbol completion engines
type ICompleter interface {
	// BuildIndex replaces the indexed symbols
	BuildIndex(symbols []symbol.Symbol)

	// AddSymbol indexes one more symbol without a rebuild
	AddSymbol(sym symbol.Symbol)

	// Complete returns ranked completions for query
	Complete(query string, maxResults int) []Result

	// Stats returns statistics about the index
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
