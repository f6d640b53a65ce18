package pipeline

import "sync"

// HashCache tracks the last seen content hash per source URL for change
// detection. The compare and the update happen under one lock so two
// concurrent runs against the same source cannot both observe "changed"
// for identical content.
type HashCache struct {
	mu     sync.Mutex
	hashes map[string]string
}

func NewHashCache() *HashCache {
	return &HashCache{hashes: make(map[string]string)}
}

// CheckAndSet records hash for the URL and reports whether the content
// changed since the previous run. An unchanged hash leaves the cache as is.
func (c *HashCache) CheckAndSet(url, hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if previous, ok := c.hashes[url]; ok && previous == hash {
		return false
	}
	c.hashes[url] = hash
	return true
}

// Get returns the cached hash for a URL, if any.
func (c *HashCache) Get(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash, ok := c.hashes[url]
	return hash, ok
}
