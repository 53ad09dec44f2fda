// Package resilience provides the bounded failure-handling patterns the
// fetch path is built on: retry with exponential backoff and a per-attempt
// timeout, composable through an Executor.
//
// Retry is the sole retry boundary in the system. Callers above it treat an
// exhausted retry as "source unavailable" rather than an exceptional
// condition.
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxRetries:  3,
//	        BackoffBase: time.Second,
//	    })),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return callUpstream(ctx)
//	})
package resilience
