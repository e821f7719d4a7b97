package port

import "context"

// PersistenceStore is durable key/value storage for operator preferences
type PersistenceStore interface {
	// Get returns the value of key; ok is false when no value is stored
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put writes all entries atomically
	Put(ctx context.Context, entries map[string]string) error
}
