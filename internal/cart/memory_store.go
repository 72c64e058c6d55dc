package cart

import (
	"context"
	"sync"
)

// MemoryStateStore keeps persisted carts in process memory.
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: make(map[string][]byte)}
}

func (m *MemoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.data[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryStateStore) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryStateStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
