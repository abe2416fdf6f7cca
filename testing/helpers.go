// Package testing provides test utilities and helpers for sieve pipelines
// and controls.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/sieve"
)

// FastConfig returns a valid configuration with zero loop delays, suitable
// for tests that read from an in-memory source.
func FastConfig(capacity, consumers int) sieve.Config {
	cfg := sieve.DefaultConfig()
	cfg.Capacity = capacity
	cfg.Consumers = consumers
	cfg.Source = ""
	return cfg
}

// NewFastPipeline creates a pipeline over values with zero loop delays.
func NewFastPipeline(capacity, consumers int, values ...int) *sieve.Pipeline {
	return sieve.New(FastConfig(capacity, consumers), sieve.Values(values...)).
		Delays(sieve.Delays{})
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// Total returns the sum of every consumer's running sum.
func Total(p *sieve.Pipeline) int {
	total := 0
	for _, s := range p.Sums() {
		total += s
	}
	return total
}

// WaitForTotal waits until the consumer sums add up to want.
func WaitForTotal(t *testing.T, p *sieve.Pipeline, want int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return Total(p) == want
	})
}

// WaitForConsumed waits until at least n items have been consumed in the
// current run.
func WaitForConsumed(t *testing.T, p *sieve.Pipeline, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return p.Stats().Consumed >= n
	})
}

// RequireStopped stops p and fails the test if the loops did not join.
func RequireStopped(t *testing.T, p *sieve.Pipeline) {
	t.Helper()
	if err := p.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if got := p.State(); got != sieve.Stopped {
		t.Fatalf("expected stopped, got %s", got)
	}
}

// WaitForState waits until the control reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, c *sieve.Control, expected sieve.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return c.State() == expected
	})
}

// RequireState fails the test immediately if the control is not in the expected state.
func RequireState(t *testing.T, c *sieve.Control, expected sieve.State) {
	t.Helper()
	if got := c.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// NewTestControl creates a control in sync mode with a channel for sending
// control documents.
func NewTestControl(t *testing.T, target sieve.Controllable) (*sieve.Control, chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	c := sieve.NewControl(sieve.NewSyncChannelWatcher(ch), target).SyncMode()
	return c, ch
}

// Target is a sieve.Controllable that records the commands it receives.
type Target struct {
	mu     sync.Mutex
	paused bool
	speed  sieve.Speed
	resets int
	err    error
}

// FailResets makes every later Reset return err.
func (t *Target) FailResets(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

func (t *Target) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	changed := !t.paused
	t.paused = true
	return changed
}

func (t *Target) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	changed := t.paused
	t.paused = false
	return changed
}

func (t *Target) SetSpeed(s sieve.Speed) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = s
	return nil
}

func (t *Target) Reset(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.resets++
	return nil
}

// Paused reports the last pause command.
func (t *Target) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Speed returns the last speed set.
func (t *Target) Speed() sieve.Speed {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// Resets returns how many resets succeeded.
func (t *Target) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

// Recorder is a sieve.Observer that keeps everything it is told.
type Recorder struct {
	mu     sync.Mutex
	events []string
	sums   map[int]int
	stats  sieve.Stats
	buffer []sieve.Item
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{sums: make(map[int]int)}
}

func (r *Recorder) OnEvent(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, msg)
}

func (r *Recorder) OnBuffer(items []sieve.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffer = items
}

func (r *Recorder) OnSum(consumer int, _ sieve.Category, sum int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sums[consumer] = sum
}

func (r *Recorder) OnStats(stats sieve.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = stats
}

// Events returns a copy of the recorded event messages.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Sum returns the last sum reported for consumer.
func (r *Recorder) Sum(consumer int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sums[consumer]
}

// Stats returns the last reported stats.
func (r *Recorder) Stats() sieve.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Buffer returns the last reported buffer snapshot.
func (r *Recorder) Buffer() []sieve.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer
}

// HasEvent reports whether msg was recorded.
func (r *Recorder) HasEvent(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == msg {
			return true
		}
	}
	return false
}

// Eventf is HasEvent with formatting.
func (r *Recorder) Eventf(format string, args ...any) bool {
	return r.HasEvent(fmt.Sprintf(format, args...))
}
