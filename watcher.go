package sieve

import "context"

// Watcher observes a source of control documents and emits raw bytes on a
// channel. Implementations must emit the current document as soon as Watch is
// called, and close the channel when ctx is cancelled or the source ends.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelWatcher adapts a byte channel to the Watcher interface, for tests
// and for documents produced in-process.
type ChannelWatcher struct {
	ch     <-chan []byte
	direct bool
}

// NewChannelWatcher forwards documents from ch through a goroutine that stops
// when the watch context is cancelled.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher hands ch to the Control unchanged.
// Use with Control.SyncMode for deterministic tests.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, direct: true}
}

// Watch implements Watcher.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.ch, nil
	}
	out := make(chan []byte)
	go forward(ctx, w.ch, out)
	return out, nil
}

// forward copies in to out until in closes or ctx is done, then closes out.
func forward(ctx context.Context, in <-chan []byte, out chan<- []byte) {
	defer close(out)
	for {
		var doc []byte
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				return
			}
			doc = v
		}
		select {
		case out <- doc:
		case <-ctx.Done():
			return
		}
	}
}
