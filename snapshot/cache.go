package snapshot

import "sync"

// Cache is a query-result cache keyed by (snapshot global hash, query
// shape), per spec.md §4.5 step 6: "cached query results keyed by
// (snapshot_global_hash, query_shape) are invalidated whenever the
// global hash changes." The cache never inspects result values — it's
// the caller's job to decide what to store under a shape key — so it
// can sit in front of any *query.PathSet/*query.VerificationResult
// without this package depending on query.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]map[string]interface{}
}

func NewCache() *Cache {
	return &Cache{entries: map[string]map[string]interface{}{}}
}

// Get returns the cached value for (globalHash, shape), if present.
func (c *Cache) Get(globalHash, shape string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byShape, ok := c.entries[globalHash]
	if !ok {
		return nil, false
	}
	v, ok := byShape[shape]
	return v, ok
}

// Put stores a result under (globalHash, shape). Storing a new
// globalHash doesn't evict older ones here — eviction across snapshot
// generations is Invalidate's job, called explicitly once a new
// snapshot supersedes its parent.
func (c *Cache) Put(globalHash, shape string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byShape, ok := c.entries[globalHash]
	if !ok {
		byShape = map[string]interface{}{}
		c.entries[globalHash] = byShape
	}
	byShape[shape] = value
}

// Invalidate drops every cached entry for a global hash, e.g. once the
// snapshot it described has been superseded and its results should no
// longer be served.
func (c *Cache) Invalidate(globalHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, globalHash)
}

// Len reports the number of distinct snapshot generations currently
// cached, for diagnostics/tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
