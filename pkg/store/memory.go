package store

import (
	"sync"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
	"github.com/praetorian-inc/linepos/pkg/types"
)

// MemoryStore implements Store with a map.
// Indexes are immutable, so they are shared rather than copied.
type MemoryStore struct {
	mu      sync.RWMutex
	indexes map[types.DocumentID]*lineindex.Index
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		indexes: make(map[types.DocumentID]*lineindex.Index),
	}
}

// Put stores the index for a document.
func (m *MemoryStore) Put(id types.DocumentID, idx *lineindex.Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.indexes[id]; exists {
		// Idempotent - already exists
		return nil
	}

	m.indexes[id] = idx
	return nil
}

// Get retrieves the index for a document.
func (m *MemoryStore) Get(id types.DocumentID) (*lineindex.Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indexes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return idx, nil
}

// Exists checks if an index is stored for a document.
func (m *MemoryStore) Exists(id types.DocumentID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.indexes[id]
	return ok, nil
}

// Count returns the number of stored documents.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.indexes), nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
