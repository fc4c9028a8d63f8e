package ai

import (
	"sync"
	"testing"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

func TestCacheConcurrentProbeStore(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := splitmix64{state: seed}
			for i := 0; i < 2000; i++ {
				key := cacheKey{hash: rng.next(), depth: i % 4, maximizing: i%2 == 0, perspective: game.MarkerA}
				c.store(key, i, boundExact)
				c.probe(key, negInf, posInf)
			}
		}(uint64(g + 1))
	}
	wg.Wait()
	if c.Len() == 0 {
		t.Fatalf("expected cache to contain entries after concurrent traffic")
	}
}

func TestCacheBounds(t *testing.T) {
	c := NewCache()
	key := cacheKey{hash: 42, depth: 2, maximizing: true, perspective: game.MarkerB}

	c.store(key, 100, boundLower)
	if _, ok := c.probe(key, 0, 200); ok {
		t.Fatalf("lower bound below beta must not cut")
	}
	if v, ok := c.probe(key, 0, 50); !ok || v != 100 {
		t.Fatalf("lower bound at or above beta should cut, got %d %v", v, ok)
	}

	c.store(key, -10, boundUpper)
	if _, ok := c.probe(key, -50, 50); ok {
		t.Fatalf("upper bound above alpha must not cut")
	}
	if v, ok := c.probe(key, 0, 50); !ok || v != -10 {
		t.Fatalf("upper bound at or below alpha should cut, got %d %v", v, ok)
	}

	c.store(key, 7, boundExact)
	c.store(key, 99, boundLower)
	if v, ok := c.probe(key, negInf, posInf); !ok || v != 7 {
		t.Fatalf("exact entry must survive a later bound, got %d %v", v, ok)
	}
	if c.Hits() != 3 {
		t.Fatalf("expected 3 hits, got %d", c.Hits())
	}
}

func TestCacheKeySeparatesDepthAndSide(t *testing.T) {
	c := NewCache()
	base := cacheKey{hash: 1, depth: 1, maximizing: true, perspective: game.MarkerA}
	c.store(base, 5, boundExact)

	others := []cacheKey{
		{hash: 1, depth: 2, maximizing: true, perspective: game.MarkerA},
		{hash: 1, depth: 1, maximizing: false, perspective: game.MarkerA},
		{hash: 1, depth: 1, maximizing: true, perspective: game.MarkerB},
	}
	for _, k := range others {
		if _, ok := c.probe(k, negInf, posInf); ok {
			t.Fatalf("key %+v must not match %+v", k, base)
		}
	}
}
