package storage

import (
	"context"
	"sync"

	"github.com/gomoku-core/fiveinrow/internal/game"
)

// MemoryStore is the default Store when no external backend is configured.
// Once limit entries are held, new keys are dropped.
type MemoryStore struct {
	mu    sync.RWMutex
	moves map[string]game.Move
	limit int
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{moves: make(map[string]game.Move), limit: limit}
}

func (m *MemoryStore) LoadMove(_ context.Context, key string) (game.Move, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mv, ok := m.moves[key]
	return mv, ok, nil
}

func (m *MemoryStore) SaveMove(_ context.Context, key string, mv game.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.moves[key]; !ok && m.limit > 0 && len(m.moves) >= m.limit {
		return nil
	}
	m.moves[key] = mv
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.moves)
}

func (m *MemoryStore) Close(context.Context) {}
