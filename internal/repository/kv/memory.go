package kv

import (
	"context"
	"maps"
	"sync"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

var _ model.KVStore = (*MemoryStore)(nil)

// MemoryStore is a process-local KVStore. Updates are serialized and applied
// only when the update function succeeds.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return clone(v), nil
}

func (s *MemoryStore) Update(_ context.Context, fn func(tx model.KVTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{base: s.data, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	maps.Copy(s.data, tx.writes)
	return nil
}

type memoryTx struct {
	base   map[string][]byte
	writes map[string][]byte
}

func (t *memoryTx) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		return clone(v), nil
	}
	if v, ok := t.base[key]; ok {
		return clone(v), nil
	}
	return nil, model.ErrNotFound
}

func (t *memoryTx) Put(_ context.Context, key string, value []byte) error {
	t.writes[key] = clone(value)
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
