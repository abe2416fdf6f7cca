package sieve

import (
	"context"
	"sync"
)

// Gate suspends producer and consumer progress while paused.
// Every loop calls Checkpoint before each unit of work.
type Gate struct {
	mu      sync.Mutex
	resumed *sync.Cond
	paused  bool
}

// NewGate creates a gate in the running state.
func NewGate() *Gate {
	g := &Gate{}
	g.resumed = sync.NewCond(&g.mu)
	return g
}

// Pause moves the gate to the paused state. It reports whether the state
// changed.
func (g *Gate) Pause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return false
	}
	g.paused = true
	return true
}

// Resume moves the gate to the running state and wakes every parked caller.
// It reports whether the state changed.
func (g *Gate) Resume() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.paused {
		return false
	}
	g.paused = false
	g.resumed.Broadcast()
	return true
}

// Paused reports whether the gate is paused.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Checkpoint returns immediately while running. While paused it blocks until
// Resume is called or ctx is cancelled, in which case it returns ctx.Err().
func (g *Gate) Checkpoint(ctx context.Context) error {
	g.mu.Lock()
	if !g.paused {
		g.mu.Unlock()
		return ctx.Err()
	}
	g.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.resumed.Broadcast()
	})
	defer stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	for g.paused {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.resumed.Wait()
	}
	return ctx.Err()
}
