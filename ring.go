package sieve

import "sync"

// ring keeps the most recent entries up to a fixed size.
// A nil ring is valid and records nothing.
type ring[T any] struct {
	mu      sync.RWMutex
	entries []T
	head    int
	count   int
}

// newRing returns a ring holding size entries, or nil if size is not positive.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{entries: make([]T, size)}
}

func (r *ring[T]) push(v T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = v
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.entries)
	r.head = 0
	r.count = 0
}

// all returns the entries oldest first.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}
	size := len(r.entries)
	out := make([]T, r.count)
	start := (r.head - r.count + size) % size
	for i := range out {
		out[i] = r.entries[(start+i)%size]
	}
	return out
}
