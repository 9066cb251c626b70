package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is the in-process Store used when no Redis is configured.
// Saves do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

func (m *MemoryStore) Load(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[strings.TrimSpace(key)]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Save(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[strings.TrimSpace(key)] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, strings.TrimSpace(key))
	return nil
}

func (m *MemoryStore) CompareAndSwap(ctx context.Context, key, old, value string) error {
	key = strings.TrimSpace(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots[key] != old {
		return ErrConflict
	}
	m.slots[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
