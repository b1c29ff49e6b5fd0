package suggest

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// trieEntry lists the store positions of every symbol sharing one
// lowercased name.
type trieEntry struct {
	positions []int
}

// nameTrie indexes store positions by lowercased name. Looking up a prefix
// yields exactly the symbols whose lowercased name starts with it.
type nameTrie struct {
	trie *patricia.Trie
	keys int
}

func newNameTrie() *nameTrie {
	return &nameTrie{trie: patricia.NewTrie()}
}

func (t *nameTrie) insert(lowerName string, pos int) {
	if lowerName == "" {
		return
	}
	key := patricia.Prefix(lowerName)
	if item := t.trie.Get(key); item != nil {
		entry := item.(*trieEntry)
		entry.positions = append(entry.positions, pos)
		return
	}
	t.trie.Insert(key, &trieEntry{positions: []int{pos}})
	t.keys++
}

// positions returns, in store order, the positions of symbols whose name
// starts with lowerPrefix. A negative limit means no limit.
func (t *nameTrie) positions(lowerPrefix string, limit int) []int {
	if limit == 0 {
		return nil
	}
	var out []int
	err := t.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(*trieEntry).positions...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
	slices.Sort(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
