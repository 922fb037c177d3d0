package embedder

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when no positive size is configured
const DefaultCacheSize = 10000

// Cache keeps recent vectors in memory, keyed by model and text, so that
// rescanning a tree does not call the model again for names it has seen.
// Vectors go in and come out as copies.
type Cache struct {
	entries *lru.Cache[string, []float32]
}

// NewCache creates a cache holding at most size vectors
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []float32](size)
	if err != nil {
		entries, _ = lru.New[string, []float32](DefaultCacheSize)
	}
	return &Cache{entries: entries}
}

// Lookup returns the cached vector for text under model
func (c *Cache) Lookup(model, text string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.entries.Get(cacheKey(model, text))
	if !ok {
		return nil, false
	}
	return cloneVector(v), true
}

// Store records the vector for text under model
func (c *Cache) Store(model, text string, vector []float32) {
	if c == nil {
		return
	}
	c.entries.Add(cacheKey(model, text), cloneVector(vector))
}

// Len returns the number of cached vectors
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge empties the cache
func (c *Cache) Purge() {
	if c != nil {
		c.entries.Purge()
	}
}

// cacheKey hashes model and text; the NUL keeps ("ab","c") and ("a","bc") apart
func cacheKey(model, text string) string {
	h := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(h[:])
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
