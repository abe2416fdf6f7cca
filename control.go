package sieve

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default debounce duration for control changes.
const DefaultDebounce = 100 * time.Millisecond

const applyName = "apply"

// ControlSpec is the document a Control watches.
//
//	paused: true
//	speed: 4
//	reset: 2
//
// Speed zero leaves the current speed untouched. Reset is a generation
// counter: every increase over the previously applied document triggers one
// drain and restart of the target.
type ControlSpec struct {
	Paused bool  `yaml:"paused" json:"paused"`
	Speed  Speed `yaml:"speed" json:"speed" validate:"omitempty,min=1,max=5"`
	Reset  int   `yaml:"reset" json:"reset" validate:"min=0"`
}

// Validate implements Validator.
func (s ControlSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid control: %w", err)
	}
	return nil
}

// Controllable is the command surface a Control drives. *Pipeline
// implements it.
type Controllable interface {
	Pause() bool
	Resume() bool
	SetSpeed(Speed) error
	Reset(ctx context.Context) error
}

// Control watches a source of ControlSpec documents and applies each valid
// one to a Controllable. An invalid document is rejected and the previously
// applied settings stay in effect.
type Control struct {
	watcher        Watcher
	pipeline       pipz.Chainable[*Request]
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	onStop         func(State)

	state        atomic.Int32
	current      atomic.Pointer[ControlSpec]
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewControl creates a Control applying documents from watcher to target.
//
// Pipeline options (With*) wrap the apply step. Instance configuration uses
// chainable methods before calling Start().
//
// Example:
//
//	control := sieve.NewControl(file.New("control.yaml"), pipeline,
//	    sieve.WithRetry(3),
//	).Codec(sieve.YAMLCodec{})
func NewControl(watcher Watcher, target Controllable, opts ...Option) *Control {
	terminal := pipz.Effect(applyName, func(ctx context.Context, req *Request) error {
		return apply(ctx, target, req)
	})
	c := &Control{
		watcher:      watcher,
		pipeline:     buildPipeline(terminal, opts),
		debounce:     DefaultDebounce,
		clock:        clockz.RealClock,
		codec:        YAMLCodec{},
		errorHistory: newRing[error](0),
	}
	c.state.Store(int32(StateLoading))
	return c
}

// apply moves target from req.Previous to req.Current.
func apply(ctx context.Context, target Controllable, req *Request) error {
	if req.Current.Paused {
		target.Pause()
	} else {
		target.Resume()
	}
	if req.Current.Speed != 0 && (req.Initial || req.Current.Speed != req.Previous.Speed) {
		if err := target.SetSpeed(req.Current.Speed); err != nil {
			return err
		}
	}
	if !req.Initial && req.Current.Reset > req.Previous.Reset {
		if err := target.Reset(ctx); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}
	return nil
}

// Debounce sets the debounce duration for change processing.
// Default: 100ms. Must be called before Start().
func (c *Control) Debounce(d time.Duration) *Control {
	c.debounce = d
	return c
}

// SyncMode enables synchronous processing for testing.
// Must be called before Start().
func (c *Control) SyncMode() *Control {
	c.syncMode = true
	return c
}

// Clock sets a custom clock for time operations.
// Must be called before Start().
func (c *Control) Clock(clock clockz.Clock) *Control {
	c.clock = clock
	return c
}

// Codec sets the codec for control documents. Default: YAMLCodec.
// Must be called before Start().
func (c *Control) Codec(codec Codec) *Control {
	c.codec = codec
	return c
}

// StartupTimeout bounds the wait for the initial document.
// Default: no timeout. Must be called before Start().
func (c *Control) StartupTimeout(d time.Duration) *Control {
	c.startupTimeout = d
	return c
}

// OnStop sets a callback invoked with the final state when watching ends.
// Must be called before Start().
func (c *Control) OnStop(fn func(State)) *Control {
	c.onStop = fn
	return c
}

// ErrorHistorySize sets the number of recent errors to retain.
// Must be called before Start().
func (c *Control) ErrorHistorySize(n int) *Control {
	c.errorHistory = newRing[error](n)
	return c
}

// State returns the current state of the Control.
func (c *Control) State() State {
	return State(c.state.Load())
}

// Current returns the last applied document and true, or false if none has
// been applied.
func (c *Control) Current() (ControlSpec, bool) {
	ptr := c.current.Load()
	if ptr == nil {
		return ControlSpec{}, false
	}
	return *ptr, true
}

// LastError returns the last error encountered, or nil.
func (c *Control) LastError() error {
	ptr := c.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent errors, oldest first.
func (c *Control) ErrorHistory() []error {
	return c.errorHistory.all()
}

// Start begins watching. It blocks until the first document is processed,
// then continues asynchronously until ctx is cancelled. In sync mode use
// Process to handle later documents.
//
// Start can only be called once. Subsequent calls return an error.
func (c *Control) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("control already started")
	}
	c.started = true
	c.mu.Unlock()

	capitan.Emit(ctx, ControlStarted,
		KeyDebounce.Field(c.debounce),
	)

	changes, err := c.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if c.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = c.clock.WithTimeout(ctx, c.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if c.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: watcher did not emit initial value within %v", c.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial value")
		}
		capitan.Emit(ctx, ControlChangeReceived)
		initialErr = c.process(ctx, raw)
	}

	if c.syncMode {
		c.changes = changes
		return initialErr
	}

	go c.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next document. Only available in sync
// mode. Returns false if no value is available or the channel is closed.
func (c *Control) Process(ctx context.Context) bool {
	if !c.syncMode {
		return false
	}

	select {
	case raw, ok := <-c.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, ControlChangeReceived)
		_ = c.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

// process decodes, validates and applies a single document.
func (c *Control) process(ctx context.Context, raw []byte) error {
	oldState := c.State()

	var spec ControlSpec
	if err := c.codec.Unmarshal(raw, &spec); err != nil {
		c.setError(err)
		c.transitionState(ctx, oldState, c.failureState())
		capitan.Emit(ctx, ControlDecodeFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("unmarshal failed: %w", err)
	}

	if err := spec.Validate(); err != nil {
		c.setError(err)
		c.transitionState(ctx, oldState, c.failureState())
		capitan.Emit(ctx, ControlValidationFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("validation failed: %w", err)
	}

	req := &Request{Current: spec, Raw: raw, Initial: true}
	if ptr := c.current.Load(); ptr != nil {
		req.Previous = *ptr
		req.Initial = false
	}

	processed, err := c.pipeline.Process(ctx, req)
	if err != nil {
		c.setError(err)
		c.transitionState(ctx, oldState, c.failureState())
		capitan.Emit(ctx, ControlApplyFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("apply failed: %w", err)
	}

	c.current.Store(&processed.Current)
	c.lastError.Store(nil)
	c.errorHistory.clear()
	c.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, ControlApplySucceeded)

	return nil
}

// failureState returns StateEmpty until a document has been applied, then
// StateDegraded.
func (c *Control) failureState() State {
	if c.current.Load() == nil {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (c *Control) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	c.state.Store(int32(newState))
	capitan.Emit(ctx, ControlStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}

// setError stores an error atomically and adds it to the error history.
func (c *Control) setError(err error) {
	e := err
	c.lastError.Store(&e)
	c.errorHistory.push(err)
}

// watch processes changes from the watcher channel with debouncing.
func (c *Control) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := c.State()
		capitan.Emit(ctx, ControlStopped,
			KeyState.Field(finalState.String()),
		)
		if c.onStop != nil {
			c.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = c.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			capitan.Emit(ctx, ControlChangeReceived)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = c.clock.NewTimer(c.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(c.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = c.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
