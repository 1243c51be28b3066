// Package history defines the conversation history store and its implementations.
package history

import (
	"context"
	"log"

	"github.com/starcadet/relay/domain"
)

// Store is an ordered, append-only per-conversation message log.
//
// Both implementations must have identical externally observable behavior so
// the chat handler is agnostic to which is active.
type Store interface {
	// Get returns the turns for a conversation in append order. An unknown
	// conversation yields an empty slice, not an error.
	Get(ctx context.Context, conversationID string) ([]domain.Turn, error)

	// Push appends one turn to a conversation. The append must be atomic with
	// respect to concurrent pushes to the same conversation.
	Push(ctx context.Context, conversationID string, turn domain.Turn) error

	// Lifecycle
	Close() error
}

// Open selects a store implementation. An empty DSN selects the in-memory
// store. A durable store that fails to open demotes the process to the
// in-memory fallback with a warning rather than failing startup.
func Open(dsn string) Store {
	if dsn == "" {
		log.Printf("WARN: DATABASE_URL not set, using in-memory history (lost on restart)")
		return NewMemoryStore()
	}

	s, err := NewSQLiteStore(dsn)
	if err != nil {
		log.Printf("WARN: failed to open history database, falling back to in-memory history: %v", err)
		return NewMemoryStore()
	}
	return s
}
