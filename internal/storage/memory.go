package storage

import (
	"slices"
	"strings"
	"sync"
)

// MemoryDB is the in-memory DB used by tests. Safe for concurrent use.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{data: map[string][]byte{}}
}

func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryDB) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = slices.Clone(value)
	return nil
}

func (m *MemoryDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MemoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// ForEach visits keys under prefix in ascending order, matching Badger's
// iteration order. The callback may mutate the store; a snapshot of the
// matching keys is taken up front.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	for _, k := range keys {
		m.mu.RLock()
		v, ok := m.data[k]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryDB) Close() error {
	return nil
}
