package store

import "sync"

// CoarseMap makes any Map safe for concurrent use by serializing every
// operation behind a single mutex. Simple and correct; throughput is
// bounded by that one lock regardless of key distribution.
//
// Grounded on original_source/src/store/CoarseGrainConcurrentMapWrapper.h.
type CoarseMap[K comparable, V any] struct {
	mu    sync.Mutex
	inner Map[K, V]
}

// NewCoarseMap wraps inner behind a single mutex.
func NewCoarseMap[K comparable, V any](inner Map[K, V]) *CoarseMap[K, V] {
	return &CoarseMap[K, V]{inner: inner}
}

// Lookup implements Map.
func (m *CoarseMap[K, V]) Lookup(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Lookup(key)
}

// Insert implements Map.
func (m *CoarseMap[K, V]) Insert(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner.Insert(key, value)
}

// Remove implements Map.
func (m *CoarseMap[K, V]) Remove(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Remove(key)
}
