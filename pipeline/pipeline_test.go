package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/epitrack/cache"
	"github.com/jonwraymond/epitrack/model"
	"github.com/jonwraymond/epitrack/observe"
)

func testLocations() []model.Location {
	return []model.Location{
		{
			Name:       "Testville",
			Country:    "Testland",
			Population: 1_000_000,
			Cases:      40_000,
			Recovered:  20_000,
			Active:     20_000,
			Type:       model.LocationCity,
		},
	}
}

func newTestPipeline(t *testing.T, fetcher Fetcher) *Pipeline {
	t.Helper()
	store, err := cache.New(cache.Config{Dir: t.TempDir(), MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	p, err := New(Config{Fetcher: fetcher, Cache: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// TestPipeline_Refresh tests a full pass: fetch, process, cache, snapshot.
func TestPipeline_Refresh(t *testing.T) {
	var calls atomic.Int64
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		calls.Add(1)
		return testLocations()
	}))

	ds, err := p.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(ds.Locations) != 1 {
		t.Fatalf("Locations = %d, want 1", len(ds.Locations))
	}
	if ds.Statistics.TotalLocations != 1 {
		t.Errorf("Statistics.TotalLocations = %d, want 1", ds.Statistics.TotalLocations)
	}
	if p.Snapshot() == nil {
		t.Error("Snapshot = nil after successful refresh")
	}
	if p.LastUpdate().IsZero() {
		t.Error("LastUpdate zero after successful refresh")
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
}

// TestPipeline_CachedDatasetShortCircuits tests that a fresh cached dataset
// is served without touching upstream.
func TestPipeline_CachedDatasetShortCircuits(t *testing.T) {
	var calls atomic.Int64
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		calls.Add(1)
		return testLocations()
	}))

	ctx := context.Background()
	if _, err := p.Refresh(ctx, true); err != nil {
		t.Fatalf("priming refresh: %v", err)
	}

	ds, err := p.Dataset(ctx)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if len(ds.Locations) != 1 {
		t.Errorf("Locations = %d, want 1", len(ds.Locations))
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1 (second read served from cache)", calls.Load())
	}
}

// TestPipeline_ForceBypassesCache tests that force consults upstream even
// with a fresh cache entry.
func TestPipeline_ForceBypassesCache(t *testing.T) {
	var calls atomic.Int64
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		calls.Add(1)
		return testLocations()
	}))

	ctx := context.Background()
	if _, err := p.Refresh(ctx, true); err != nil {
		t.Fatalf("priming refresh: %v", err)
	}
	if _, err := p.Refresh(ctx, true); err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("fetch calls = %d, want 2", calls.Load())
	}
}

// TestPipeline_LastKnownFallback tests serving the previous dataset when a
// later refresh comes up empty.
func TestPipeline_LastKnownFallback(t *testing.T) {
	var fail atomic.Bool
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		if fail.Load() {
			return nil
		}
		return testLocations()
	}))

	ctx := context.Background()
	first, err := p.Refresh(ctx, true)
	if err != nil {
		t.Fatalf("priming refresh: %v", err)
	}

	fail.Store(true)
	ds, err := p.Refresh(ctx, true)
	if err != nil {
		t.Fatalf("Refresh with failing upstream: %v", err)
	}
	if !ds.GeneratedAt.Equal(first.GeneratedAt) {
		t.Error("fallback did not serve the last known dataset")
	}
}

// TestPipeline_NoDataNoFallback tests ErrNoData when nothing was ever
// produced.
func TestPipeline_NoDataNoFallback(t *testing.T) {
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		return nil
	}))

	if _, err := p.Refresh(context.Background(), true); err != ErrNoData {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

// TestPipeline_SingleFlight tests that concurrent forced refreshes share
// one upstream pass.
func TestPipeline_SingleFlight(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	p := newTestPipeline(t, FetcherFunc(func(ctx context.Context) []model.Location {
		calls.Add(1)
		<-release
		return testLocations()
	}))

	ctx := context.Background()
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Refresh(ctx, true)
		}(i)
	}

	// Give every goroutine time to join the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1 shared pass", calls.Load())
	}
}

// TestPipeline_RestartServesPersistedDataset tests the file-tier path: a
// new pipeline over the same cache directory serves data without fetching.
func TestPipeline_RestartServesPersistedDataset(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := cache.New(cache.Config{Dir: dir, MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	first, err := New(Config{Cache: store, Fetcher: FetcherFunc(func(ctx context.Context) []model.Location {
		return testLocations()
	})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := first.Refresh(ctx, true); err != nil {
		t.Fatalf("priming refresh: %v", err)
	}

	store2, err := cache.New(cache.Config{Dir: dir, MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	var calls atomic.Int64
	second, err := New(Config{Cache: store2, Fetcher: FetcherFunc(func(ctx context.Context) []model.Location {
		calls.Add(1)
		return nil
	})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ds, err := second.Dataset(ctx)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if len(ds.Locations) != 1 {
		t.Errorf("Locations = %d, want 1 from persisted dataset", len(ds.Locations))
	}
	if calls.Load() != 0 {
		t.Errorf("fetch calls = %d, want 0", calls.Load())
	}
}

// TestPipeline_Telemetry tests a refresh against the real telemetry
// backends: stage spans land in the recorder and refresh, dataset, and
// cache-tier metrics land in the reader.
func TestPipeline_Telemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observe.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := observe.NewTracer(tp.Tracer("test"))

	store, err := cache.New(cache.Config{Dir: t.TempDir(), MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	p, err := New(Config{
		Fetcher: FetcherFunc(func(ctx context.Context) []model.Location {
			return testLocations()
		}),
		Cache:   store,
		Metrics: metrics,
		Tracer:  tracer,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, err := p.Refresh(ctx, true); err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	if _, err := p.Dataset(ctx); err != nil {
		t.Fatalf("cached read: %v", err)
	}

	stages := map[string]bool{}
	for _, s := range recorder.Ended() {
		stages[s.Name()] = true
	}
	for _, want := range []string{"pipeline.refresh", "pipeline.fetch", "pipeline.process", "pipeline.store"} {
		if !stages[want] {
			t.Errorf("no ended span named %s", want)
		}
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sums := map[string]int64{}
	var locations int64 = -1
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				if m.Name == "pipeline.dataset.locations" && len(data.DataPoints) > 0 {
					locations = data.DataPoints[0].Value
				}
			}
		}
	}
	if sums["pipeline.refresh.total"] != 1 {
		t.Errorf("refresh.total = %d, want 1", sums["pipeline.refresh.total"])
	}
	if locations != 1 {
		t.Errorf("dataset.locations = %d, want 1", locations)
	}
	// The cached read consulted the memory tier.
	if sums["cache.lookups.total"] < 1 {
		t.Errorf("cache.lookups.total = %d, want at least 1", sums["cache.lookups.total"])
	}
}

// TestPipeline_CleanupExpiredCache tests the sweep passthrough.
func TestPipeline_CleanupExpiredCache(t *testing.T) {
	store, err := cache.New(cache.Config{Dir: t.TempDir(), MaxAge: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	p, err := New(Config{Cache: store, Fetcher: FetcherFunc(func(ctx context.Context) []model.Location {
		return testLocations()
	})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, err := p.Refresh(ctx, true); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	if removed := p.CleanupExpiredCache(ctx); removed == 0 {
		t.Error("CleanupExpiredCache removed nothing")
	}
}
