package ai

import (
	"sync"
	"sync/atomic"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

type boundFlag uint8

const (
	boundExact boundFlag = iota
	boundLower
	boundUpper
)

const cacheStripes = 64

type cacheKey struct {
	hash        uint64
	depth       int
	maximizing  bool
	perspective game.Cell
}

type cacheEntry struct {
	score int
	flag  boundFlag
}

// Cache is a transposition table for one top-level search. It is striped so
// parallel root workers can share it.
type Cache struct {
	stripes [cacheStripes]cacheStripe
	hits    atomic.Int64
}

type cacheStripe struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

func NewCache() *Cache {
	c := &Cache{}
	for i := range c.stripes {
		c.stripes[i].entries = make(map[cacheKey]cacheEntry)
	}
	return c
}

func (c *Cache) stripe(key cacheKey) *cacheStripe {
	return &c.stripes[key.hash&(cacheStripes-1)]
}

// probe returns a score usable under the (alpha, beta) window.
func (c *Cache) probe(key cacheKey, alpha, beta int) (int, bool) {
	s := c.stripe(key)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}
	switch {
	case e.flag == boundExact,
		e.flag == boundLower && e.score >= beta,
		e.flag == boundUpper && e.score <= alpha:
		c.hits.Add(1)
		return e.score, true
	}
	return 0, false
}

func (c *Cache) store(key cacheKey, score int, flag boundFlag) {
	s := c.stripe(key)
	s.mu.Lock()
	if old, ok := s.entries[key]; !ok || old.flag != boundExact || flag == boundExact {
		s.entries[key] = cacheEntry{score: score, flag: flag}
	}
	s.mu.Unlock()
}

func (c *Cache) Len() int {
	n := 0
	for i := range c.stripes {
		s := &c.stripes[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

func (c *Cache) Hits() int64 {
	return c.hits.Load()
}
