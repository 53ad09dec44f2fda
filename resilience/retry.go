package resilience

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryConfig configures the retry behavior. The attempt budget is
// 1 + MaxRetries: one initial try plus MaxRetries retries, with a delay of
// BackoffBase * 2^attempt before retry number attempt+1.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	// Default: 3
	MaxRetries int

	// BackoffBase is the delay before the first retry; subsequent delays
	// double. Default: 1s
	BackoffBase time.Duration

	// MaxDelay caps the delay between retries. Default: 30s
	MaxDelay time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt. attempt counts from 0
	// (the failed attempt that triggered this retry).
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements bounded retry with exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	} else if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.BackoffBase <= 0 {
		config.BackoffBase = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds or the attempt budget is spent. A
// spent budget returns ErrRetriesExhausted wrapping the last attempt's
// error; a non-retryable error is returned as-is. The backoff wait yields
// to context cancellation; a canceled context returns ctx.Err() without
// spending the remaining attempts.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.delayFor(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

// delayFor returns BackoffBase * 2^attempt, capped at MaxDelay.
func (r *Retry) delayFor(attempt int) time.Duration {
	delay := time.Duration(float64(r.config.BackoffBase) * math.Pow(2, float64(attempt)))
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}
	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
