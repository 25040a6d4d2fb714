package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	indexes map[string][]string
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[string][]byte),
		indexes: make(map[string][]string),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.records[key] = stored
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.records[key]
	delete(m.records, key)
	return ok, nil
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.records[key]
	return ok, nil
}

func (m *memoryStore) IndexAdd(_ context.Context, index, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.indexes[index] {
		if existing == id {
			return nil
		}
	}
	m.indexes[index] = append(m.indexes[index], id)
	return nil
}

func (m *memoryStore) IndexRemove(_ context.Context, index, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.indexes[index]
	for i, existing := range ids {
		if existing == id {
			m.indexes[index] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryStore) IndexIDs(_ context.Context, index string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, len(m.indexes[index]))
	copy(ids, m.indexes[index])
	return ids, nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }

func (m *memoryStore) Close() error { return nil }
