package tagger

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"postag/model"
)

type cacheKey struct {
	mode model.ExtractMode
	text string
}

// Cache remembers extracted tokens per (mode, text). Analysis of a text is
// deterministic for a fixed model, so a hit is indistinguishable from a
// fresh analysis. Cached slices are shared and must not be modified.
type Cache struct {
	lru       *lru.Cache[cacheKey, []model.Token]
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewCache returns a cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	c := &Cache{}
	l, err := lru.NewWithEvict[cacheKey, []model.Token](size, c.handleEviction)
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

func (c *Cache) handleEviction(cacheKey, []model.Token) {
	c.evictions.Add(1)
}

func (c *Cache) get(mode model.ExtractMode, text string) ([]model.Token, bool) {
	toks, ok := c.lru.Get(cacheKey{mode: mode, text: text})
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return toks, ok
}

func (c *Cache) add(mode model.ExtractMode, text string, toks []model.Token) {
	c.lru.Add(cacheKey{mode: mode, text: text}, toks)
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Len       int   `json:"len"`
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.lru.Len(),
	}
}

// Purge drops every entry. Call it when the underlying model changes.
func (c *Cache) Purge() {
	c.lru.Purge()
}
