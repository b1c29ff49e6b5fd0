package suggest

import (
	"math"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// ResultCache keeps recent Complete results keyed by query and limit,
// evicting the least recently used entry when full. It is safe for
// concurrent use.
type ResultCache struct {
	entries     map[string][]Result
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache creates a cache holding up to maxEntries result lists.
// maxEntries <= 0 disables caching.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[string][]Result, max(maxEntries, 0)),
		accessTime: make(map[string]int64, max(maxEntries, 0)),
		maxEntries: maxEntries,
	}
}

func cacheKey(query string, limit int) string {
	return strconv.Itoa(limit) + "\x00" + query
}

// Get returns the cached results for query and limit.
func (rc *ResultCache) Get(query string, limit int) ([]Result, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey(query, limit)
	results, ok := rc.entries[key]
	if !ok {
		rc.misses++
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return results, true
}

// Put stores results for query and limit. Callers must not modify results
// afterwards.
func (rc *ResultCache) Put(query string, limit int, results []Result) {
	if rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey(query, limit)
	if _, ok := rc.entries[key]; !ok && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = results
	rc.markAccessed(key)
}

// Complete serves query from the cache, falling back to c.
func (rc *ResultCache) Complete(c ICompleter, query string, limit int) []Result {
	if results, ok := rc.Get(query, limit); ok {
		return results
	}
	results := c.Complete(query, limit)
	rc.Put(query, limit, results)
	return results
}

// Reset drops every entry. Counters are kept.
func (rc *ResultCache) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	clear(rc.entries)
	clear(rc.accessTime)
}

func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(rc.entries),
		"maxEntries":   rc.maxEntries,
		"cacheHits":    int(rc.hits),
		"cacheMisses":  int(rc.misses),
	}
}

func (rc *ResultCache) markAccessed(key string) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range rc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(rc.entries, oldestKey)
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted query %q from result cache", oldestKey)
	}
}
