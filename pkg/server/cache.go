package server

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/charmbracelet/log"
)

// ResultCache keeps the match lists of recent searches. The index never
// changes, so entries only leave the cache through LRU eviction.
type ResultCache struct {
	entries     map[string][]search.Match
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
	mu          sync.RWMutex
}

// NewResultCache creates a cache holding up to maxEntries result lists.
// A cache with maxEntries <= 0 stores nothing.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[string][]search.Match, max(maxEntries, 0)),
		accessTime: make(map[string]int64, max(maxEntries, 0)),
		maxEntries: maxEntries,
	}
}

// cacheKey identifies a search by everything that changes its outcome.
func cacheKey(query string, limit int, fuzzy bool, f catalog.Filter) string {
	return strings.Join([]string{
		utils.NormalizeQuery(query),
		fmt.Sprint(limit),
		fmt.Sprint(fuzzy),
		f.OntologyClass, f.Region, f.Category, f.Preparation, f.NutritionalFocus,
	}, "\x00")
}

// Get returns the cached matches for key.
func (rc *ResultCache) Get(key string) ([]search.Match, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	matches, ok := rc.entries[key]
	if !ok {
		rc.misses++
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return matches, true
}

// Put stores matches under key, evicting the least recently used entry
// when full.
func (rc *ResultCache) Put(key string, matches []search.Match) {
	if rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, ok := rc.entries[key]; !ok && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = matches
	rc.markAccessed(key)
}

// Stats returns cache counters.
func (rc *ResultCache) Stats() map[string]int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return map[string]int{
		"cacheEntries": len(rc.entries),
		"maxEntries":   rc.maxEntries,
		"cacheHits":    rc.hits,
		"cacheMisses":  rc.misses,
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

	if oldestTime != math.MaxInt64 {
		delete(rc.entries, oldestKey)
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted %q from result cache", oldestKey)
	}
}
