package sieve

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// env is the state shared by every loop of one Pipeline run.
type env struct {
	buffer   *Buffer
	gate     *Gate
	clock    clockz.Clock
	observer Observer
	stats    *counters
	run      string
}

func newEnv(buffer *Buffer, gate *Gate) env {
	return env{
		buffer: buffer,
		gate:   gate,
		clock:  clockz.RealClock,
		stats:  &counters{},
	}
}

// report pushes the buffer snapshot and aggregate counters to the observer.
func (e *env) report(msg string) {
	if e.observer == nil {
		return
	}
	e.observer.OnEvent(msg)
	items := e.buffer.Snapshot()
	e.observer.OnBuffer(items)
	e.observer.OnStats(e.stats.snapshot(len(items), e.buffer.Capacity()))
}

// rest blocks for d on the configured clock, returning early with ctx.Err()
// if ctx is cancelled.
func (e *env) rest(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := e.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}
