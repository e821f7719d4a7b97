// Package memory provides an in-process PersistenceStore for tests and
// for running without a database.
package memory

import (
	"context"
	"sync"

	"github.com/garyjia/station-report/internal/application/port"
)

// Store keeps preferences in a map
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	puts   int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get implements port.PersistenceStore
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Put implements port.PersistenceStore
func (s *Store) Put(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range entries {
		s.values[k] = v
	}
	s.puts++
	return nil
}

// Puts returns how many writes the store has accepted
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

var _ port.PersistenceStore = (*Store)(nil)
