package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrRetriesExhausted is returned when every retry attempt has failed.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")

	// ErrTimeout is returned when an operation exceeds its time limit.
	ErrTimeout = errors.New("resilience: operation timed out")
)
