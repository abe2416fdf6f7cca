package sieve

import (
	"context"
	"sync"
)

// Buffer is a capacity-bounded FIFO shared between one producer and any
// number of category consumers.
//
// All state is guarded by a single mutex. Producers park on space while the
// buffer is full; consumers park on the condition for their category while no
// buffered item carries it. pending[c] is the exact number of buffered items
// carrying c, so a woken consumer always rescans real contents instead of
// trusting a permit.
type Buffer struct {
	mu       sync.Mutex
	space    *sync.Cond
	avail    [len(AllCategories)]*sync.Cond
	items    []Item
	pending  [len(AllCategories)]int
	capacity int
}

// NewBuffer creates an empty buffer holding at most capacity items.
// A capacity below one is treated as one.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		items:    make([]Item, 0, capacity),
		capacity: capacity,
	}
	b.space = sync.NewCond(&b.mu)
	for i := range b.avail {
		b.avail[i] = sync.NewCond(&b.mu)
	}
	return b
}

// Put appends item, blocking while the buffer is full.
//
// The append and the counter updates for every category the item carries
// happen in one critical section. If ctx is cancelled before a slot frees up,
// Put returns ctx.Err() and the buffer is left untouched.
func (b *Buffer) Put(ctx context.Context, item Item) error {
	stop := context.AfterFunc(ctx, b.wakeAll)
	defer stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.items) >= b.capacity {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.space.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.items = append(b.items, item)
	for _, c := range AllCategories {
		if item.Is(c) {
			b.pending[c]++
			b.avail[c].Broadcast()
		}
	}
	return nil
}

// Take removes and returns the oldest item carrying category, blocking until
// one is buffered. An item carrying several categories is handed to whichever
// consumer reaches it first and is never delivered twice.
//
// If ctx is cancelled while waiting, Take returns ctx.Err() and removes
// nothing.
func (b *Buffer) Take(ctx context.Context, category Category) (Item, error) {
	stop := context.AfterFunc(ctx, b.wakeAll)
	defer stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		for b.pending[category] == 0 {
			if err := ctx.Err(); err != nil {
				return Item{}, err
			}
			b.avail[category].Wait()
		}
		if err := ctx.Err(); err != nil {
			return Item{}, err
		}

		idx := b.oldest(category)
		if idx < 0 {
			// Counter and contents disagree; trust the contents.
			b.recount()
			continue
		}

		return b.remove(idx), nil
	}
}

// Snapshot returns a point-in-time copy of the buffered items, oldest first.
func (b *Buffer) Snapshot() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Size returns the number of buffered items.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Capacity returns the maximum number of buffered items.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Pending returns how many buffered items carry category.
func (b *Buffer) Pending(category Category) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[category]
}

// Reset drops every buffered item and zeroes all category counters.
// Parked producers are woken since the buffer now has free slots.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.items)
	b.items = b.items[:0]
	b.pending = [len(AllCategories)]int{}
	b.space.Broadcast()
	for _, cond := range b.avail {
		cond.Broadcast()
	}
}

// oldest returns the index of the first item carrying category, or -1.
// Callers must hold mu.
func (b *Buffer) oldest(category Category) int {
	for i, item := range b.items {
		if item.Is(category) {
			return i
		}
	}
	return -1
}

// remove deletes the item at idx, decrements every counter it carries and
// wakes parked producers. Callers must hold mu.
func (b *Buffer) remove(idx int) Item {
	item := b.items[idx]
	b.items = append(b.items[:idx], b.items[idx+1:]...)
	for _, c := range AllCategories {
		if item.Is(c) {
			b.pending[c]--
		}
	}
	b.space.Broadcast()
	return item
}

// recount rebuilds pending from the buffered items. Callers must hold mu.
func (b *Buffer) recount() {
	b.pending = [len(AllCategories)]int{}
	for _, item := range b.items {
		for _, c := range AllCategories {
			if item.Is(c) {
				b.pending[c]++
			}
		}
	}
}

// wakeAll broadcasts on every condition so waiters re-check their context.
func (b *Buffer) wakeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.space.Broadcast()
	for _, cond := range b.avail {
		cond.Broadcast()
	}
}
