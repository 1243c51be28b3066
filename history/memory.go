package history

import (
	"context"
	"sync"

	"github.com/starcadet/relay/domain"
)

// MemoryStore implements Store with a process-local map. Used as the
// safety-net default and for local development; history is lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	turns map[string][]domain.Turn
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{turns: make(map[string][]domain.Turn)}
}

// Get returns a copy of the turns for a conversation in append order.
func (s *MemoryStore) Get(ctx context.Context, conversationID string) ([]domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.turns[conversationID]
	turns := make([]domain.Turn, len(stored))
	copy(turns, stored)
	return turns, nil
}

// Push appends one turn to a conversation. The append happens under the lock
// so concurrent pushes to the same conversation cannot lose entries.
func (s *MemoryStore) Push(ctx context.Context, conversationID string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[conversationID] = append(s.turns[conversationID], turn)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
