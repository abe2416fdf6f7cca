/*
Package sieve provides a bounded producer/consumer pipeline in which one
producer classifies integers and a set of typed consumers each drain only the
items of their category: even, odd or prime.

sieve is designed to be embedded within services and tools that need a small,
observable concurrency core. Every loop is cancellable, every blocking wait is
event driven, and every step is announced through capitan signals.

# Buffer

The Buffer is the synchronization core. Put blocks while it is full, Take
blocks until an item of the requested category is buffered:

	buf := sieve.NewBuffer(10)
	_ = buf.Put(ctx, sieve.Classify(7))    // odd+prime
	item, _ := buf.Take(ctx, sieve.Prime)  // 7, never delivered twice

An item carrying several categories is visible to each of them and removed by
exactly one consumer, whichever reaches it first.

# Pipeline

A Pipeline supervises one producer and a multiple of three consumers
assigned round-robin over Even, Odd and Prime:

	p := sieve.New(sieve.DefaultConfig(), sieve.FileSource("numeros.txt")).
	    Observer(view)

	if err := p.Start(ctx); err != nil {
	    return err
	}
	defer p.Stop()

	p.Pause()
	p.SetSpeed(sieve.SpeedFast)
	p.Resume()
	p.Reset(ctx) // drain and restart, sums start from zero

Stop waits for the loops up to Config.JoinTimeout. A loop that does not exit
in time is recorded as a Diagnostic and Stop returns an error wrapping
ErrJoinTimeout instead of hanging.

# Control

A Control applies ControlSpec documents from any Watcher to a Pipeline.
Invalid documents are rejected and the previous settings stay in effect:

	control := sieve.NewControl(file.New("control.yaml"), p,
	    sieve.WithRetry(3),
	)
	if err := control.Start(ctx); err != nil {
	    log.Printf("control degraded: %v", err)
	}

Package pkg/file watches a document on disk and pkg/redis follows a Redis key.

# Observers

Presentation is delegated to an Observer, which receives event messages,
buffer snapshots, consumer sums and aggregate Stats. Embed NoOpObserver to
implement only the callbacks you need, and combine several with Observers.
Package pkg/metrics provides an Observer exporting Prometheus gauges.

# Signals

Lifecycle and data events are emitted as capitan signals with typed keys:

	capitan.Hook(sieve.ItemConsumed, func(_ context.Context, e *capitan.Event) {
	    sum, _ := sieve.KeySum.From(e)
	    log.Printf("running sum %d", sum)
	})

# Testing

Pipeline, Producer, Consumer and Control accept a clockz.Clock so delays and
timeouts can be driven by a fake clock. Control.SyncMode with
NewSyncChannelWatcher processes documents deterministically.
*/
package sieve
