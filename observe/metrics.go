package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRefresh records one refresh pass with its duration, the number
	// of locations produced, and the error outcome.
	RecordRefresh(ctx context.Context, duration time.Duration, locations int, err error)

	// RecordFetch records one upstream fetch with the number of attempts
	// spent and the error outcome.
	RecordFetch(ctx context.Context, source string, attempts int, err error)

	// RecordCacheAccess records a cache lookup against a tier.
	RecordCacheAccess(ctx context.Context, tier string, hit bool)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	refreshCount    metric.Int64Counter
	refreshErrors   metric.Int64Counter
	refreshDuration metric.Float64Histogram
	locationCount   metric.Int64Gauge
	fetchAttempts   metric.Int64Counter
	fetchErrors     metric.Int64Counter
	cacheLookups    metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	refreshCount, err := meter.Int64Counter(
		"pipeline.refresh.total",
		metric.WithDescription("Total number of refresh passes"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	refreshErrors, err := meter.Int64Counter(
		"pipeline.refresh.errors",
		metric.WithDescription("Total number of failed refresh passes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	refreshDuration, err := meter.Float64Histogram(
		"pipeline.refresh.duration_ms",
		metric.WithDescription("Refresh pass duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	locationCount, err := meter.Int64Gauge(
		"pipeline.dataset.locations",
		metric.WithDescription("Number of locations in the current dataset"),
		metric.WithUnit("{location}"),
	)
	if err != nil {
		return nil, err
	}

	fetchAttempts, err := meter.Int64Counter(
		"fetch.attempts.total",
		metric.WithDescription("Total number of upstream request attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	fetchErrors, err := meter.Int64Counter(
		"fetch.errors.total",
		metric.WithDescription("Total number of exhausted upstream fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"cache.lookups.total",
		metric.WithDescription("Total number of cache lookups by tier and outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		refreshCount:    refreshCount,
		refreshErrors:   refreshErrors,
		refreshDuration: refreshDuration,
		locationCount:   locationCount,
		fetchAttempts:   fetchAttempts,
		fetchErrors:     fetchErrors,
		cacheLookups:    cacheLookups,
	}, nil
}

func (m *metricsImpl) RecordRefresh(ctx context.Context, duration time.Duration, locations int, err error) {
	m.refreshCount.Add(ctx, 1)
	if err != nil {
		m.refreshErrors.Add(ctx, 1)
	} else {
		m.locationCount.Record(ctx, int64(locations))
	}
	m.refreshDuration.Record(ctx, float64(duration.Milliseconds()))
}

func (m *metricsImpl) RecordFetch(ctx context.Context, source string, attempts int, err error) {
	opt := metric.WithAttributes(attribute.String("source", source))
	m.fetchAttempts.Add(ctx, int64(attempts), opt)
	if err != nil {
		m.fetchErrors.Add(ctx, 1, opt)
	}
}

func (m *metricsImpl) RecordCacheAccess(ctx context.Context, tier string, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.Bool("hit", hit),
	))
}

// NopMetrics returns a Metrics implementation that does nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordRefresh(ctx context.Context, duration time.Duration, locations int, err error) {
}
func (m *noopMetrics) RecordFetch(ctx context.Context, source string, attempts int, err error) {}
func (m *noopMetrics) RecordCacheAccess(ctx context.Context, tier string, hit bool)            {}

var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
