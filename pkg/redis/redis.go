// Package redis provides a sieve.Watcher reading control documents from a
// Redis key, so several sieve processes can be paused, sped up or reset from
// one place.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Watcher follows a Redis key through keyspace notifications. The server must
// publish them:
//
//	CONFIG SET notify-keyspace-events K$
type Watcher struct {
	client *redis.Client
	key    string
	db     int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDB selects the logical database whose keyspace channel is subscribed.
// It must match the database the client is connected to. Default: 0.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// New creates a Watcher for key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{client: client, key: key}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Channel returns the keyspace notification channel for the watched key.
func (w *Watcher) Channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
}

// Watch emits the key's current value if it exists, then its value after
// every string write. Deleting or expiring the key emits nothing, leaving the
// last document in force. Values identical to the last emitted one are
// skipped.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.Channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", w.Channel(), err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		var last []byte
		// emit reports false once the watcher should stop.
		emit := func() bool {
			val, err := w.client.Get(ctx, w.key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
				return true
			case err != nil:
				return false
			case len(val) == 0 || bytes.Equal(val, last):
				return true
			}
			last = val
			select {
			case out <- val:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		notifications := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-notifications:
				if !ok {
					return
				}
				if !isWrite(msg.Payload) {
					continue
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out, nil
}

// isWrite reports whether a keyspace event replaces the string value.
func isWrite(event string) bool {
	switch event {
	case "set", "setrange", "append", "mset", "setex", "psetex", "setnx", "getset", "copy_to", "rename_to", "restore":
		return true
	default:
		return false
	}
}
