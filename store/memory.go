package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps everything in process memory. It is used by tests and
// by STORE_DRIVER=memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
	indexes map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string][]byte),
		indexes: make(map[string][]string),
	}
}

func memoryKey(entity, id string) string { return entity + ":" + id }

func (m *MemoryBackend) Exists(_ context.Context, entity, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[memoryKey(entity, id)]
	return ok, nil
}

func (m *MemoryBackend) Insert(_ context.Context, entity, id string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(entity, id)
	if _, ok := m.records[key]; ok {
		return ErrConflict
	}
	m.records[key] = slices.Clone(value)
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, entity, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[memoryKey(entity, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

func (m *MemoryBackend) Update(_ context.Context, entity, id string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(entity, id)
	if _, ok := m.records[key]; !ok {
		return ErrNotFound
	}
	m.records[key] = slices.Clone(value)
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, entity, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(entity, id)
	if _, ok := m.records[key]; !ok {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

func (m *MemoryBackend) IndexAppend(_ context.Context, index, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.indexes[index], id) {
		m.indexes[index] = append(m.indexes[index], id)
	}
	return nil
}

func (m *MemoryBackend) IndexRemove(_ context.Context, index, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[index] = slices.DeleteFunc(m.indexes[index], func(v string) bool { return v == id })
	return nil
}

func (m *MemoryBackend) IndexList(_ context.Context, index string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.indexes[index]), nil
}

func (m *MemoryBackend) Close() error { return nil }
