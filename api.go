package sieve

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

var (
	// ErrAlreadyRunning is returned by Start on a running Pipeline.
	ErrAlreadyRunning = errors.New("pipeline already running")

	// ErrJoinTimeout is returned by Stop when loops did not exit in time.
	// The Pipeline is stopped regardless.
	ErrJoinTimeout = errors.New("loops did not exit before the join timeout")
)

// Diagnostic is a non-fatal problem recorded by a Pipeline.
type Diagnostic struct {
	Run string
	At  time.Time
	Err error
}

// Pipeline supervises one producer and a set of category consumers sharing
// a Buffer. It is Stopped until Start, and can be stopped, restarted and
// reset any number of times. The pause gate and speed outlive restarts.
type Pipeline struct {
	cfg         Config
	opener      Opener
	gate        *Gate
	clock       clockz.Clock
	observer    Observer
	speed       atomic.Int32
	delays      atomic.Pointer[Delays]
	diagnostics *ring[Diagnostic]

	mu        sync.Mutex
	state     atomic.Int32
	runName   atomic.Pointer[string]
	buffer    *Buffer
	stats     *counters
	producer  *Producer
	consumers []*Consumer
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a stopped Pipeline. A nil opener reads cfg.Source from disk.
//
// Example:
//
//	p := sieve.New(sieve.DefaultConfig(), sieve.Values(2, 3, 4, 9, 10)).
//	    Observer(view)
//	if err := p.Start(ctx); err != nil {
//	    return err
//	}
//	defer p.Stop()
func New(cfg Config, opener Opener) *Pipeline {
	if opener == nil {
		opener = FileSource(cfg.Source)
	}
	p := &Pipeline{
		cfg:         cfg,
		opener:      opener,
		gate:        NewGate(),
		clock:       clockz.RealClock,
		diagnostics: newRing[Diagnostic](32),
		stats:       &counters{},
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	p.speed.Store(int32(speed))
	return p
}

// Clock sets the clock used for loop delays and the join timeout.
// Must be called before Start().
func (p *Pipeline) Clock(clock clockz.Clock) *Pipeline {
	p.clock = clock
	return p
}

// Observer sets the presentation observer. Must be called before Start().
//
// Every Start, including the one inside Reset, reports a zero sum for each
// consumer and the empty buffer before the loops run. Callbacks from loops
// of an earlier run that missed the join timeout are dropped.
func (p *Pipeline) Observer(o Observer) *Pipeline {
	p.observer = o
	return p
}

// Delays fixes the loop delays, overriding the speed presets.
func (p *Pipeline) Delays(d Delays) *Pipeline {
	p.delays.Store(&d)
	return p
}

// DiagnosticsSize sets how many diagnostics are retained. Default: 32.
// Must be called before Start().
func (p *Pipeline) DiagnosticsSize(n int) *Pipeline {
	p.diagnostics = newRing[Diagnostic](n)
	return p
}

// Config returns the configuration the Pipeline was created with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// State returns the lifecycle state.
func (p *Pipeline) State() Lifecycle {
	return Lifecycle(p.state.Load())
}

// Start creates an empty buffer, opens the source and spawns the producer
// and consumers.
//
// If the source cannot be opened the failure is recorded and signalled once,
// no producer runs, and the consumers are started anyway so the Pipeline
// still answers Stop and Reset. Start returns nil in that case.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start(ctx)
}

// Stop cancels every loop and waits up to the configured join timeout for
// them to exit. On timeout it records a diagnostic, finishes stopping and
// returns an error wrapping ErrJoinTimeout. Stopping a stopped Pipeline is a
// no-op.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop()
}

// Reset stops the loops, drains the buffer and starts again with the same
// configuration. Consumer sums and counters start from zero.
func (p *Pipeline) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stopErr := p.stop()
	if p.buffer != nil {
		p.buffer.Reset()
	}
	if err := p.start(ctx); err != nil {
		return errors.Join(stopErr, err)
	}

	capitan.Emit(ctx, PipelineReset, KeyRun.Field(p.runID()))
	p.notify("pipeline reset")
	return stopErr
}

// Pause closes the gate. Loops park at their next checkpoint.
func (p *Pipeline) Pause() bool {
	if !p.gate.Pause() {
		return false
	}
	capitan.Emit(context.Background(), PipelinePaused, KeyRun.Field(p.runID()))
	p.notify("pipeline paused")
	return true
}

// Resume opens the gate and wakes every parked loop.
func (p *Pipeline) Resume() bool {
	if !p.gate.Resume() {
		return false
	}
	capitan.Emit(context.Background(), PipelineResumed, KeyRun.Field(p.runID()))
	p.notify("pipeline resumed")
	return true
}

// Paused reports whether the gate is closed.
func (p *Pipeline) Paused() bool {
	return p.gate.Paused()
}

// SetSpeed selects a speed preset. It takes effect at each loop's next delay.
// Delays set with Delays take precedence.
func (p *Pipeline) SetSpeed(s Speed) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if Speed(p.speed.Swap(int32(s))) != s {
		capitan.Emit(context.Background(), SpeedChanged,
			KeyRun.Field(p.runID()),
			KeySpeed.Field(int(s)),
		)
		p.notify(fmt.Sprintf("speed set to %s", s))
	}
	return nil
}

// Speed returns the current speed preset.
func (p *Pipeline) Speed() Speed {
	return Speed(p.speed.Load())
}

// Sums returns the running sum of every consumer, indexed by consumer id.
// After Stop it returns the final sums of the last run.
func (p *Pipeline) Sums() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	sums := make([]int, len(p.consumers))
	for i, c := range p.consumers {
		sums[i] = c.Sum()
	}
	return sums
}

// Snapshot returns a copy of the buffered items, oldest first.
func (p *Pipeline) Snapshot() []Item {
	buf := p.currentBuffer()
	if buf == nil {
		return nil
	}
	return buf.Snapshot()
}

// Stats returns the aggregate counters of the current run.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	buf, stats := p.buffer, p.stats
	p.mu.Unlock()

	if buf == nil {
		return stats.snapshot(0, p.cfg.Capacity)
	}
	return stats.snapshot(buf.Size(), buf.Capacity())
}

// Diagnostics returns recently recorded diagnostics, oldest first.
func (p *Pipeline) Diagnostics() []Diagnostic {
	return p.diagnostics.all()
}

func (p *Pipeline) start(ctx context.Context) error {
	if p.State() == Running {
		return ErrAlreadyRunning
	}
	if err := p.cfg.Validate(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := uuid.NewString()
	p.runName.Store(&run)
	p.buffer = NewBuffer(p.cfg.Capacity)
	p.stats = &counters{}
	p.cancel = cancel
	p.done = make(chan struct{})

	p.consumers = make([]*Consumer, p.cfg.Consumers)
	for i := range p.consumers {
		c := NewConsumer(i, CategoryFor(i), p.buffer, p.gate).Delay(p.consumerDelay)
		p.wire(&c.env)
		p.consumers[i] = c
	}

	p.producer = nil
	source, err := p.opener.Open(runCtx)
	if err != nil {
		p.record(run, err)
		capitan.Emit(ctx, SourceFailed,
			KeyRun.Field(run),
			KeyError.Field(err.Error()),
		)
		p.notify(fmt.Sprintf("error: %v", err))
	} else {
		p.producer = NewProducer(p.buffer, p.gate, source).Delay(p.producerDelay)
		p.wire(&p.producer.env)
	}

	p.publishZero()

	var wg sync.WaitGroup
	for _, c := range p.consumers {
		wg.Add(1)
		go func(c *Consumer) {
			defer wg.Done()
			_ = c.Run(runCtx) //nolint:errcheck // always ctx.Err()
		}(c)
	}
	if p.producer != nil {
		wg.Add(1)
		go func(pr *Producer) {
			defer wg.Done()
			if err := pr.Run(runCtx); err != nil && runCtx.Err() == nil {
				p.record(run, err)
			}
		}(p.producer)
	}
	go func(done chan struct{}) {
		wg.Wait()
		close(done)
	}(p.done)

	p.state.Store(int32(Running))
	capitan.Emit(ctx, PipelineStarted,
		KeyRun.Field(run),
		KeyCapacity.Field(p.cfg.Capacity),
		KeyConsumers.Field(p.cfg.Consumers),
	)
	return nil
}

func (p *Pipeline) stop() error {
	if p.State() != Running {
		return nil
	}
	p.cancel()

	var err error
	timeout := p.cfg.JoinTimeout
	if timeout <= 0 {
		timeout = DefaultJoinTimeout
	}
	timer := p.clock.NewTimer(timeout)
	select {
	case <-p.done:
		timer.Stop()
	case <-timer.C():
		err = fmt.Errorf("%w (%v)", ErrJoinTimeout, timeout)
		p.record(p.runID(), err)
		capitan.Emit(context.Background(), JoinTimedOut,
			KeyRun.Field(p.runID()),
			KeyTimeout.Field(timeout),
		)
	}

	p.state.Store(int32(Stopped))
	capitan.Emit(context.Background(), PipelineStopped, KeyRun.Field(p.runID()))
	p.notify("pipeline stopped")
	return err
}

// wire shares the run state with a loop.
func (p *Pipeline) wire(e *env) {
	e.clock = p.clock
	e.stats = p.stats
	e.run = p.runID()
	if p.observer != nil {
		e.observer = runObserver{Observer: p.observer, run: e.run, current: p.runID}
	}
}

// publishZero reports the empty buffer and a zero sum for every consumer of
// a run that is about to start, so observers drop the previous run's values
// even if no item is ever taken.
func (p *Pipeline) publishZero() {
	if p.observer == nil {
		return
	}
	for i, c := range p.consumers {
		p.observer.OnSum(i, c.Category(), 0)
	}
	p.observer.OnBuffer(nil)
	p.observer.OnStats(p.stats.snapshot(0, p.buffer.Capacity()))
}

// runObserver forwards callbacks only while run is the current run. Loops
// left behind by a join timeout keep running until they notice cancellation
// and must not overwrite what the next run reports.
type runObserver struct {
	Observer
	run     string
	current func() string
}

func (o runObserver) live() bool { return o.current() == o.run }

func (o runObserver) OnEvent(msg string) {
	if o.live() {
		o.Observer.OnEvent(msg)
	}
}

func (o runObserver) OnBuffer(items []Item) {
	if o.live() {
		o.Observer.OnBuffer(items)
	}
}

func (o runObserver) OnSum(consumer int, category Category, sum int) {
	if o.live() {
		o.Observer.OnSum(consumer, category, sum)
	}
}

func (o runObserver) OnStats(stats Stats) {
	if o.live() {
		o.Observer.OnStats(stats)
	}
}

func (p *Pipeline) producerDelay() time.Duration {
	if d := p.delays.Load(); d != nil {
		return d.Producer
	}
	return p.Speed().Delays().Producer
}

func (p *Pipeline) consumerDelay() time.Duration {
	if d := p.delays.Load(); d != nil {
		return d.Consumer
	}
	return p.Speed().Delays().Consumer
}

func (p *Pipeline) record(run string, err error) {
	p.diagnostics.push(Diagnostic{Run: run, At: p.clock.Now(), Err: err})
}

func (p *Pipeline) notify(msg string) {
	if p.observer != nil {
		p.observer.OnEvent(msg)
	}
}

// runID returns the id of the current or last run.
func (p *Pipeline) runID() string {
	if id := p.runName.Load(); id != nil {
		return *id
	}
	return ""
}

func (p *Pipeline) currentBuffer() *Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer
}
