package memory

import (
	"context"
	"slices"
	"sync"
)

// LedgerStore keeps ledger documents in process memory.
type LedgerStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{blobs: make(map[string][]byte)}
}

func (s *LedgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(blob), nil
}

func (s *LedgerStore) Put(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = slices.Clone(blob)
	return nil
}
