package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds the duration of each wrapped operation. When composed
// inside a Retry, each attempt gets its own deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs the operation under a deadline. The operation is expected to
// honor its context; a deadline overrun returns ErrTimeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	err := op(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
