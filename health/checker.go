package health

import (
	"context"
	"time"
)

// Status is the health verdict for a component.
type Status int

const (
	// StatusHealthy means the component is fully operational.
	StatusHealthy Status = iota
	// StatusDegraded means the component works with reduced capability.
	StatusDegraded
	// StatusUnhealthy means the component cannot do its job.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

// Healthy builds a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, Timestamp: time.Now()}
}

// Degraded builds a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, Timestamp: time.Now()}
}

// Unhealthy builds an unhealthy result carrying the causing error.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, Timestamp: time.Now()}
}

// WithDetails attaches metadata to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker is one component health check.
type Checker interface {
	// Name identifies the checker in aggregate output.
	Name() string

	// Check runs the check. It must honor ctx cancellation.
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a named function to Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc wraps fn as a Checker called name.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string                     { return f.name }
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

var _ Checker = (*CheckerFunc)(nil)
