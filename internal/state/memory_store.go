package state

import (
	"context"
	"slices"
	"sync"

	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// MemoryStore is a map-backed KVStore. Nothing survives the process.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	writeErr error
	writes   int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key, or None.
func (s *MemoryStore) Get(_ context.Context, key string) (foundation.Option[[]byte], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return foundation.None[[]byte](), nil
	}
	return foundation.Some(slices.Clone(value)), nil
}

// Set stores a copy of value under key unless FailWrites is in effect.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[key] = slices.Clone(value)
	return nil
}

// FailWrites makes every following Set return err. A nil err restores writes.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns how many times Set was called, failed calls included.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close is a no-op; the values stay readable.
func (s *MemoryStore) Close() error {
	return nil
}
