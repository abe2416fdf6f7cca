package sieve

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option wraps the apply pipeline of a Control with middleware for retry,
// timeout and other reliability patterns.
type Option func(pipz.Chainable[*Request]) pipz.Chainable[*Request]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Request], opts []Option) pipz.Chainable[*Request] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry retries a failed apply immediately, up to maxAttempts times.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff retries a failed apply with delays of baseDelay, 2*baseDelay,
// 4*baseDelay and so on.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails an apply that takes longer than d. A reset waits for the
// target's join timeout, so d should exceed it.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithCircuitBreaker rejects documents immediately after failures
// consecutive apply failures, until recovery has passed.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewCircuitBreaker("circuit-breaker", p, failures, recovery)
	}
}

// WithErrorHandler passes apply failures to handler. The error still
// propagates and the Control still degrades.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Request]]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware runs processors in order before the apply step.
//
// Example:
//
//	sieve.NewControl(watcher, pipeline,
//	    sieve.WithMiddleware(
//	        sieve.UseEffect("audit", auditFn),
//	    ),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Request]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		all := make([]pipz.Chainable[*Request], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// UseApply creates a processor that can rewrite the request or reject it.
func UseApply(name string, fn func(context.Context, *Request) (*Request, error)) pipz.Chainable[*Request] {
	return pipz.Apply(name, fn)
}

// UseEffect creates a processor that performs a side effect.
// The request passes through unchanged.
func UseEffect(name string, fn func(context.Context, *Request) error) pipz.Chainable[*Request] {
	return pipz.Effect(name, fn)
}

// UseTransform creates a processor that rewrites the request and cannot fail.
//
// Example:
//
//	// Never let a control document slow the pipeline below normal.
//	sieve.UseTransform("floor", func(_ context.Context, r *sieve.Request) *sieve.Request {
//	    if r.Current.Speed != 0 && r.Current.Speed < sieve.SpeedNormal {
//	        r.Current.Speed = sieve.SpeedNormal
//	    }
//	    return r
//	})
func UseTransform(name string, fn func(context.Context, *Request) *Request) pipz.Chainable[*Request] {
	return pipz.Transform(name, fn)
}

// UseRateLimit limits how often documents reach the apply step.
func UseRateLimit(rate float64, burst int) pipz.Chainable[*Request] {
	return pipz.NewRateLimiter[*Request]("rate-limiter", rate, burst)
}
