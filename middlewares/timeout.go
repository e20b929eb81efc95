package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/polyglot/internal"
)

// DefaultTimeout is used when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Timeout time.Duration
	Skip    func(c internal.Context) bool
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutSkipper excludes requests for which fn returns true.
func WithTimeoutSkipper(fn func(c internal.Context) bool) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.Skip = fn
	}
}

type timeoutContextKey struct{}

// Timeout returns middleware that fails the request with a TimeoutError once
// the duration elapses. The handler goroutine is not stopped; long-running
// handlers should watch GetTimeoutContext(c).Done().
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := TimeoutConfig{Timeout: timeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()
			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return ctx.Err()
				}
				c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
				return &TimeoutError{Duration: cfg.Timeout}
			}
		}
	}
}

// GetTimeoutContext returns the deadline-bound context installed by Timeout,
// or the request context when Timeout is not in the chain.
func GetTimeoutContext(c internal.Context) context.Context {
	if ctx, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
