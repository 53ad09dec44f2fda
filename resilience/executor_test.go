package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestTimeout_DeadlineMapsToErrTimeout tests deadline error translation.
func TestTimeout_DeadlineMapsToErrTimeout(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

// TestTimeout_FastOpPasses tests the happy path.
func TestTimeout_FastOpPasses(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})
	if err := to.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

// TestExecutor_FreshDeadlinePerAttempt tests the timeout-inside-retry
// composition: a slow first attempt times out without consuming the whole
// budget, and a fast second attempt succeeds.
func TestExecutor_FreshDeadlinePerAttempt(t *testing.T) {
	exec := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxRetries: 2, BackoffBase: time.Millisecond})),
		WithTimeout(20*time.Millisecond),
	)

	attempts := 0
	err := exec.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})

	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

// TestExecutor_NoPatterns tests the passthrough case.
func TestExecutor_NoPatterns(t *testing.T) {
	exec := NewExecutor()
	want := errors.New("direct")
	if err := exec.Execute(context.Background(), func(ctx context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}
