package health

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds one CheckAll pass.
const DefaultCheckTimeout = 10 * time.Second

// Aggregator runs a set of checkers as one composite check.
type Aggregator struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates an Aggregator. A non-positive timeout gets
// DefaultCheckTimeout.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker. Registering the same name again replaces it.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := c.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = c
}

// CheckerNames returns checker names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// CheckAll runs every registered checker in parallel under the shared
// timeout and returns the results keyed by checker name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, 0, len(a.checkers))
	for _, c := range a.checkers {
		checkers = append(checkers, c)
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if len(checkers) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var resMu sync.Mutex
	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			r := a.run(ctx, c)
			resMu.Lock()
			results[c.Name()] = r
			resMu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

// OverallStatus folds results into one verdict: any unhealthy wins, then
// any degraded, else healthy. No results counts as healthy.
func OverallStatus(results map[string]Result) Status {
	status := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

func (a *Aggregator) run(ctx context.Context, c Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)
	go func() {
		done <- c.Check(ctx)
	}()

	select {
	case r := <-done:
		r.Duration = time.Since(start)
		if r.Timestamp.IsZero() {
			r.Timestamp = start
		}
		return r
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
