package storage

import (
	"sort"
	"sync"
)

// MemoryKV is a map-backed KV. It backs remote guest sessions and tests.
// An optional capacity makes it refuse writes the way a browser's local
// storage does, which is how the manager's emergency path gets exercised.
type MemoryKV struct {
	mu       sync.RWMutex
	data     map[string]string
	capacity int // bytes under the UTF-16 cost model; 0 means unlimited
	closed   bool
}

// NewMemoryKV creates an unbounded in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// NewMemoryKVWithCapacity creates an in-memory store that returns
// ErrQuotaExceeded once a write would push it past the given byte cost.
func NewMemoryKVWithCapacity(capacity int) *MemoryKV {
	return &MemoryKV{data: make(map[string]string), capacity: capacity}
}

// Get returns the value for key, or ErrNotFound.
func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores the value, enforcing the capacity if one is configured.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.capacity > 0 {
		used := 0
		for k, v := range m.data {
			if k == key {
				continue // replaced, its old cost is released
			}
			used += EntrySize(k, v)
		}
		if used+EntrySize(key, value) > m.capacity {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}

// Delete removes the key. Missing keys are not an error.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

// Keys returns all keys sorted for deterministic scans.
func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes everything.
func (m *MemoryKV) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data = make(map[string]string)
	return nil
}

// Close marks the store closed. Further operations return ErrClosed.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
