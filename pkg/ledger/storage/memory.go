package storage

import (
	"context"
	"sync"
)

// MemStore keeps the ledger blob in memory. Used in tests and for
// ephemeral deployments that do not need the ledger to survive restarts.
type MemStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load implements Port.
func (s *MemStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Save implements Port.
func (s *MemStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}
