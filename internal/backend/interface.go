package backend

import (
	"context"

	"cashbook/internal/services"
	"cashbook/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the created store and optional extras. Service is only
// set for the sqlite backend, where entry writes also publish to the
// export queue.
type Result struct {
	Store   store.Store
	Service *services.CollectionService
	Cleanup CleanupFunc
}

// Factory creates record stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// PostgREST specific
	StoreURL string
	StoreKey string

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type selects the record store implementation.
type Type string

const (
	PostgRESTBackend Type = "postgrest"
	SQLiteBackend    Type = "sqlite"
	MemoryBackend    Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case PostgRESTBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
