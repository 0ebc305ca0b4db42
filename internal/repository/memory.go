package repository

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs tests and the
// "memory" storage driver.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get returns a copy of the document body, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(body), nil
}

// Put stores all documents under one write lock.
func (s *MemoryStore) Put(ctx context.Context, docs ...Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range docs {
		s.docs[d.Key] = bytes.Clone(d.Body)
	}
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
