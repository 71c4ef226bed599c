package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory EntityStore. It backs local development and
// tests; the managers cannot tell it apart from the Postgres store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]json.RawMessage)}
}

// GetAll returns every document in the collection.
func (m *MemoryStore) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.collections[collection]
	out := make([]json.RawMessage, 0, len(docs))
	for _, raw := range docs {
		out = append(out, raw)
	}
	return out, nil
}

// GetByID returns one document or ErrNotFound.
func (m *MemoryStore) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

// Put upserts the entity as a JSON document.
func (m *MemoryStore) Put(ctx context.Context, collection, id string, entity any) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]json.RawMessage)
		m.collections[collection] = docs
	}
	docs[id] = raw
	return nil
}

// Delete removes the document if present.
func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}
