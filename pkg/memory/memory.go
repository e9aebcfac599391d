package memory

import "sync"

// Memory is a bounded recall buffer. Once full, storing a new entry drops
// the oldest one.
type Memory[T any] struct {
	entries  []T
	capacity int
	mu       sync.RWMutex
}

func NewMemory[T any](capacity int) *Memory[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory[T]{
		entries:  make([]T, 0, capacity),
		capacity: capacity,
	}
}

// All returns a copy of every stored entry, oldest first
func (m *Memory[T]) All() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]T, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// Recent returns up to n of the newest entries, oldest first.
func (m *Memory[T]) Recent(n int) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > len(m.entries) {
		n = len(m.entries)
	}
	if n <= 0 {
		return []T{}
	}
	entries := make([]T, n)
	copy(entries, m.entries[len(m.entries)-n:])
	return entries
}

func (m *Memory[T]) Store(entry T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	if len(m.entries) > m.capacity {
		m.entries = m.entries[1:]
	}
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory[T]) Capacity() int {
	return m.capacity
}

// Reset forgets everything.
func (m *Memory[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]T, 0, m.capacity)
}
