package sieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Processor names in the producer pipeline.
const (
	classifyName = "classify"
	placeName    = "place"
	announceName = "announce"
	produceName  = "produce"
)

// production carries one value through the producer pipeline.
type production struct {
	Value int
	Item  Item
}

// Producer reads tokens from a Source, classifies them and places the
// resulting items in a Buffer.
type Producer struct {
	env
	source   Source
	delay    func() time.Duration
	pipeline pipz.Chainable[*production]
}

// NewProducer creates a producer feeding buffer from source.
func NewProducer(buffer *Buffer, gate *Gate, source Source) *Producer {
	p := &Producer{
		env:    newEnv(buffer, gate),
		source: source,
		delay:  func() time.Duration { return 0 },
	}
	p.pipeline = pipz.NewSequence(produceName,
		pipz.Transform(classifyName, func(_ context.Context, pr *production) *production {
			pr.Item = Classify(pr.Value)
			return pr
		}),
		pipz.Effect(placeName, func(ctx context.Context, pr *production) error {
			return p.buffer.Put(ctx, pr.Item)
		}),
		pipz.Effect(announceName, func(ctx context.Context, pr *production) error {
			p.stats.recordProduced()
			capitan.Emit(ctx, ItemProduced,
				KeyRun.Field(p.run),
				KeyValue.Field(pr.Value),
				KeyCategory.Field(pr.Item.Categories.String()),
				KeySize.Field(p.buffer.Size()),
			)
			p.report(fmt.Sprintf("produced value %d", pr.Value))
			return nil
		}),
	)
	return p
}

// Clock sets the clock used for the inter-item delay.
func (p *Producer) Clock(clock clockz.Clock) *Producer {
	p.clock = clock
	return p
}

// Observer sets the presentation observer.
func (p *Producer) Observer(o Observer) *Producer {
	p.observer = o
	return p
}

// Delay sets the function consulted for the pause after each item.
func (p *Producer) Delay(fn func() time.Duration) *Producer {
	p.delay = fn
	return p
}

// Run produces until the source is exhausted, in which case it returns nil,
// or until ctx is cancelled, in which case it returns ctx.Err().
// Malformed tokens are skipped. Any other source error ends the loop.
func (p *Producer) Run(ctx context.Context) error {
	if c, ok := p.source.(io.Closer); ok {
		defer c.Close()
	}

	for {
		if err := p.gate.Checkpoint(ctx); err != nil {
			return err
		}

		token, err := p.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			capitan.Emit(ctx, ProducerFinished, KeyRun.Field(p.run))
			p.report("producer finished reading the source")
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			capitan.Emit(ctx, SourceFailed,
				KeyRun.Field(p.run),
				KeyError.Field(err.Error()),
			)
			p.report(fmt.Sprintf("source failed: %v", err))
			return err
		}

		value, err := parseToken(token)
		if err != nil {
			capitan.Emit(ctx, ProducerParseFailed,
				KeyRun.Field(p.run),
				KeyToken.Field(token),
				KeyError.Field(err.Error()),
			)
			p.report(fmt.Sprintf("skipped malformed token %q", token))
			continue
		}

		if _, err := p.pipeline.Process(ctx, &production{Value: value}); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("producing %d: %w", value, err)
		}

		if err := p.rest(ctx, p.delay()); err != nil {
			return err
		}
	}
}
