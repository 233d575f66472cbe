package api

import (
	"sync"

	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/esg"
)

// DocumentCache is a thread-safe LRU cache of stored reports.
// Cached documents are shared and must not be modified.
type DocumentCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	entry *ledger.Entry
	doc   *esg.Document
}

// NewDocumentCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 20.
func NewDocumentCache(maxSize int) *DocumentCache {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &DocumentCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// Get retrieves a report from the cache.
func (c *DocumentCache) Get(id string) (*ledger.Entry, *esg.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, nil, false
	}

	// Move to end (most recently used)
	c.moveToEnd(id)
	return e.entry, e.doc, true
}

// Put adds a report to the cache, evicting the oldest if full.
func (c *DocumentCache) Put(id string, entry *ledger.Entry, doc *esg.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.entries[id] = &cacheEntry{entry: entry, doc: doc}
		c.moveToEnd(id)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[id] = &cacheEntry{entry: entry, doc: doc}
	c.order = append(c.order, id)
}

// Len returns the number of cached reports.
func (c *DocumentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *DocumentCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
