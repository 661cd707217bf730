package interfaces

import "context"

// StorageManager owns the active key/value backend and its lifecycle
type StorageManager interface {
	KeyValueStorage() KeyValueStorage

	// Maintain runs backend housekeeping (value-log GC, query planner statistics).
	// It is safe to call while the store is in use.
	Maintain(ctx context.Context) error

	// Backend returns the configured backend name ("badger", "sqlite", "memory")
	Backend() string

	Close() error
}
