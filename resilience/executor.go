package resilience

import (
	"context"
	"time"
)

// Executor composes the retry and timeout patterns around an operation.
type Executor struct {
	retry   *Retry
	timeout *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout adds a per-attempt timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds a preconfigured timeout to the executor.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through the configured patterns. The timeout
// sits inside the retry, so every attempt gets a fresh deadline.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	wrapped := op
	if e.timeout != nil {
		inner := wrapped
		wrapped = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}
	if e.retry != nil {
		return e.retry.Execute(ctx, wrapped)
	}
	return wrapped(ctx)
}
