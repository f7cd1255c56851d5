package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryableFunc is a single attempt of an operation.
type RetryableFunc func() error

// Config holds the retry policy.
type Config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
	onRetry      func(attempt int, err error)
}

// Option configures Do.
type Option func(*Config)

// WithMaxRetries sets the number of retries after the first attempt. Default 3.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. Default 1s.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay caps the backoff. Default 30s.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier sets the backoff multiplier. Default 2.0.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithRetryIf stops retrying as soon as retryIf returns false for an error.
// Errors such as 404 from GitHub are final and should not burn the budget.
func WithRetryIf(retryIf func(error) bool) Option {
	return func(c *Config) {
		if retryIf != nil {
			c.retryIf = retryIf
		}
	}
}

// WithOnRetry is called before each retry with the attempt number and the
// error that caused it.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *Config) {
		c.onRetry = fn
	}
}

func defaultConfig() *Config {
	return &Config{
		maxRetries:   3,
		initialDelay: 1 * time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
		retryIf:      func(error) bool { return true },
	}
}

// Do runs fn and retries it with exponential backoff until it succeeds, the
// retry budget is exhausted, retryIf rejects the error, or ctx is done.
//
//	err := common.Do(ctx, func() error {
//	    return enrich(ctx, item)
//	},
//	    common.WithMaxRetries(2),
//	    common.WithRetryIf(isTransient),
//	)
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	lastErr := fn()
	if lastErr == nil {
		return nil
	}

	for attempt := 1; attempt <= cfg.maxRetries; attempt++ {
		if !cfg.retryIf(lastErr) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err())
		default:
		}

		if cfg.onRetry != nil {
			cfg.onRetry(attempt, lastErr)
		}

		timer := time.NewTimer(calculateDelay(attempt, cfg.initialDelay, cfg.maxDelay, cfg.multiplier))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt, cfg.maxRetries, ctx.Err())
		case <-timer.C:
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, lastErr)
}

// calculateDelay returns initialDelay * multiplier^(attempt-1), capped at maxDelay.
func calculateDelay(attempt int, initialDelay, maxDelay time.Duration, multiplier float64) time.Duration {
	delay := float64(initialDelay) * math.Pow(multiplier, float64(attempt-1))
	if time.Duration(delay) > maxDelay {
		return maxDelay
	}
	return time.Duration(delay)
}
