package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/epitrack/cache"
	"github.com/jonwraymond/epitrack/model"
	"github.com/jonwraymond/epitrack/observe"
	"github.com/jonwraymond/epitrack/stats"
)

// DatasetKey is the cache key under which the processed dataset lives.
const DatasetKey = "processed_data"

// Default cadences for the background loop.
const (
	DefaultRefreshInterval = 1 * time.Hour
	DefaultCleanupInterval = 6 * time.Hour
)

// ErrNoData reports a refresh pass that produced no locations and had no
// previous dataset to fall back on.
var ErrNoData = errors.New("pipeline: no upstream data available")

// Fetcher produces the raw location batch for one refresh pass.
type Fetcher interface {
	FetchAllLocations(ctx context.Context) []model.Location
}

// Config configures a Pipeline.
type Config struct {
	// Fetcher supplies raw locations. Required.
	Fetcher Fetcher

	// Cache persists processed datasets across restarts. Required.
	Cache *cache.Store

	// Engine normalizes and summarizes. Default: stats.NewEngine with
	// defaults.
	Engine *stats.Engine

	// RefreshInterval is the cadence of the background refresh loop.
	// Default: DefaultRefreshInterval.
	RefreshInterval time.Duration

	// CleanupInterval is the cadence of expired-entry sweeps.
	// Default: DefaultCleanupInterval.
	CleanupInterval time.Duration

	Logger  observe.Logger
	Metrics observe.Metrics
	Tracer  observe.Tracer
}

// Pipeline owns the refresh flow. All methods are safe for concurrent use.
type Pipeline struct {
	fetcher Fetcher
	cache   *cache.Store
	engine  *stats.Engine

	refreshEvery time.Duration
	cleanupEvery time.Duration

	sf      singleflight.Group
	current atomic.Pointer[model.Dataset]

	log     observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
}

// New builds a Pipeline, applying defaults for unset optional fields.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("pipeline: fetcher is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("pipeline: cache is required")
	}
	if cfg.Engine == nil {
		cfg.Engine = stats.NewEngine(stats.Config{Logger: cfg.Logger})
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observe.NopTracer()
	}

	return &Pipeline{
		fetcher:      cfg.Fetcher,
		cache:        cfg.Cache,
		engine:       cfg.Engine,
		refreshEvery: cfg.RefreshInterval,
		cleanupEvery: cfg.CleanupInterval,
		log:          cfg.Logger.WithComponent("pipeline"),
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
	}, nil
}

// Dataset returns the current processed dataset, preferring cached data:
// a fresh cache entry is served without touching upstream. Only when both
// cache tiers miss does it fall through to a refresh.
func (p *Pipeline) Dataset(ctx context.Context) (*model.Dataset, error) {
	return p.Refresh(ctx, false)
}

// Refresh produces a processed dataset. With force false, a fresh cached
// dataset short-circuits the pass; with force true the cache is bypassed
// and upstream is consulted unconditionally. Concurrent calls share one
// in-flight refresh. When upstream yields nothing, the last successfully
// produced dataset is served instead; ErrNoData is returned only when
// there is no fallback at all.
func (p *Pipeline) Refresh(ctx context.Context, force bool) (*model.Dataset, error) {
	if !force {
		if ds := p.loadCached(ctx); ds != nil {
			p.current.Store(ds)
			return ds, nil
		}
	}

	v, err, _ := p.sf.Do(DatasetKey, func() (any, error) {
		return p.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

// loadCached returns the cached dataset if a fresh entry exists in either
// tier, nil otherwise. An undecodable entry is dropped and counts as a
// miss.
func (p *Pipeline) loadCached(ctx context.Context) *model.Dataset {
	raw, ok := p.cache.GetMemoryOnly(ctx, DatasetKey)
	p.metrics.RecordCacheAccess(ctx, "memory", ok)
	if !ok {
		raw, ok = p.cache.Get(ctx, DatasetKey)
		p.metrics.RecordCacheAccess(ctx, "file", ok)
	}
	if !ok {
		return nil
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		p.log.Warn(ctx, "discarding undecodable cached dataset", observe.F("error", err.Error()))
		if err := p.cache.Delete(ctx, DatasetKey); err != nil {
			p.log.Warn(ctx, "failed to drop cached dataset", observe.F("error", err.Error()))
		}
		return nil
	}
	return &ds
}

func (p *Pipeline) refresh(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()
	ctx, span := p.tracer.StartStage(ctx, "refresh")

	fetchCtx, fetchSpan := p.tracer.StartStage(ctx, "fetch")
	locations := p.fetcher.FetchAllLocations(fetchCtx)
	p.tracer.EndSpan(fetchSpan, nil)

	if len(locations) == 0 {
		p.metrics.RecordRefresh(ctx, time.Since(start), 0, ErrNoData)
		p.tracer.EndSpan(span, ErrNoData)

		if last := p.current.Load(); last != nil {
			p.log.Warn(ctx, "refresh produced no data, serving last known dataset",
				observe.F("generated_at", last.GeneratedAt))
			return last, nil
		}
		return nil, ErrNoData
	}

	procCtx, procSpan := p.tracer.StartStage(ctx, "process")
	records := p.engine.ProcessAll(procCtx, locations)
	ds := p.engine.ToDataset(records)
	p.tracer.EndSpan(procSpan, nil)

	storeCtx, storeSpan := p.tracer.StartStage(ctx, "store")
	err := p.cache.Put(storeCtx, DatasetKey, ds)
	p.tracer.EndSpan(storeSpan, err)
	if err != nil {
		// Memory tier still holds the entry; the dataset is good.
		p.log.Warn(ctx, "dataset not persisted to file tier", observe.F("error", err.Error()))
	}

	p.current.Store(&ds)
	p.metrics.RecordRefresh(ctx, time.Since(start), len(records), nil)
	p.tracer.EndSpan(span, nil)

	p.log.Info(ctx, "refresh complete",
		observe.F("locations", len(records)),
		observe.F("duration_ms", time.Since(start).Milliseconds()))
	return &ds, nil
}

// Snapshot returns the last successfully produced dataset without touching
// the cache or upstream, or nil if no refresh has succeeded yet.
func (p *Pipeline) Snapshot() *model.Dataset {
	return p.current.Load()
}

// LastUpdate returns when the current dataset was generated, zero if none.
func (p *Pipeline) LastUpdate() time.Time {
	if ds := p.current.Load(); ds != nil {
		return ds.GeneratedAt
	}
	return time.Time{}
}

// CleanupExpiredCache sweeps expired entries from both cache tiers.
func (p *Pipeline) CleanupExpiredCache(ctx context.Context) int {
	return p.cache.CleanupExpired(ctx)
}

// Run refreshes immediately, then keeps the dataset warm on the configured
// cadence and sweeps expired cache entries, until ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.Refresh(ctx, false); err != nil {
		p.log.Error(ctx, "initial refresh failed", observe.F("error", err.Error()))
	}

	refresh := time.NewTicker(p.refreshEvery)
	defer refresh.Stop()
	cleanup := time.NewTicker(p.cleanupEvery)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-refresh.C:
			if _, err := p.Refresh(ctx, true); err != nil {
				p.log.Error(ctx, "scheduled refresh failed", observe.F("error", err.Error()))
			}
		case <-cleanup.C:
			p.CleanupExpiredCache(ctx)
		}
	}
}

var _ Fetcher = (*fetcherFunc)(nil)

// fetcherFunc adapts a plain function to Fetcher.
type fetcherFunc func(ctx context.Context) []model.Location

func (f fetcherFunc) FetchAllLocations(ctx context.Context) []model.Location { return f(ctx) }

// FetcherFunc adapts a plain function to Fetcher.
func FetcherFunc(f func(ctx context.Context) []model.Location) Fetcher {
	return fetcherFunc(f)
}
