package sieve

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Consumer drains items of one category from a Buffer and keeps a running sum.
type Consumer struct {
	env
	id       int
	category Category
	delay    func() time.Duration
	sum      atomic.Int64
	taken    atomic.Int64
}

// NewConsumer creates consumer id bound to category.
func NewConsumer(id int, category Category, buffer *Buffer, gate *Gate) *Consumer {
	return &Consumer{
		env:      newEnv(buffer, gate),
		id:       id,
		category: category,
		delay:    func() time.Duration { return 0 },
	}
}

// Clock sets the clock used for the inter-item delay.
func (c *Consumer) Clock(clock clockz.Clock) *Consumer {
	c.clock = clock
	return c
}

// Observer sets the presentation observer.
func (c *Consumer) Observer(o Observer) *Consumer {
	c.observer = o
	return c
}

// Delay sets the function consulted for the pause after each item.
func (c *Consumer) Delay(fn func() time.Duration) *Consumer {
	c.delay = fn
	return c
}

// ID returns the consumer index.
func (c *Consumer) ID() int { return c.id }

// Category returns the category the consumer drains.
func (c *Consumer) Category() Category { return c.category }

// Sum returns the running sum of consumed values.
func (c *Consumer) Sum() int { return int(c.sum.Load()) }

// Taken returns how many items the consumer has taken.
func (c *Consumer) Taken() int { return int(c.taken.Load()) }

// Run consumes until ctx is cancelled and returns ctx.Err().
// Cancellation is observed between takes, so an item that has been removed
// from the buffer is always added to the sum.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		capitan.Emit(context.WithoutCancel(ctx), ConsumerStopped,
			KeyRun.Field(c.run),
			KeyConsumer.Field(c.id),
			KeyCategory.Field(c.category.String()),
			KeySum.Field(c.Sum()),
		)
	}()

	for {
		if err := c.gate.Checkpoint(ctx); err != nil {
			return err
		}

		item, err := c.buffer.Take(ctx, c.category)
		if err != nil {
			return err
		}

		sum := int(c.sum.Add(int64(item.Value)))
		c.taken.Add(1)
		c.stats.recordConsumed(item.Value)

		capitan.Emit(ctx, ItemConsumed,
			KeyRun.Field(c.run),
			KeyConsumer.Field(c.id),
			KeyCategory.Field(c.category.String()),
			KeyValue.Field(item.Value),
			KeySum.Field(sum),
		)
		if c.observer != nil {
			c.observer.OnSum(c.id, c.category, sum)
		}
		c.report(fmt.Sprintf("consumer %d (%s) consumed value %d, running sum %d",
			c.id, c.category, item.Value, sum))

		if err := c.rest(ctx, c.delay()); err != nil {
			return err
		}
	}
}
