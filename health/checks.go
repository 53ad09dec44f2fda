package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/epitrack/cache"
	"github.com/jonwraymond/epitrack/fetch"
	"github.com/jonwraymond/epitrack/model"
)

// SourceProber reports upstream endpoint availability.
type SourceProber interface {
	SourceHealth(ctx context.Context) fetch.SourceReport
}

// SourceChecker probes the upstream statistics sources. The global source
// is required; the regional source only degrades the verdict because city
// and country records survive without it.
type SourceChecker struct {
	prober SourceProber
}

// NewSourceChecker wraps a prober, typically the fetch client.
func NewSourceChecker(prober SourceProber) *SourceChecker {
	return &SourceChecker{prober: prober}
}

func (c *SourceChecker) Name() string { return "sources" }

func (c *SourceChecker) Check(ctx context.Context) Result {
	report := c.prober.SourceHealth(ctx)
	details := map[string]any{
		"global":   report.Global,
		"regional": report.Regional,
	}

	if !report.Global.Available {
		return Unhealthy("global source unreachable", ErrSourceUnavailable).WithDetails(details)
	}
	if !report.Regional.Available {
		return Degraded("regional source unreachable, state records unavailable").WithDetails(details)
	}
	return Healthy("all sources reachable").WithDetails(details)
}

// CacheChecker inspects the dual-tier store. A populated memory tier with
// an empty file tier means datasets will not survive a restart, which is
// degraded rather than broken.
type CacheChecker struct {
	store *cache.Store
}

// NewCacheChecker wraps a cache store.
func NewCacheChecker(store *cache.Store) *CacheChecker {
	return &CacheChecker{store: store}
}

func (c *CacheChecker) Name() string { return "cache" }

func (c *CacheChecker) Check(ctx context.Context) Result {
	info := c.store.Info()
	size := c.store.Size()
	details := map[string]any{
		"memory_entries": info.Memory.Count,
		"file_entries":   info.File.Count,
		"dir":            info.Dir,
		"max_age":        info.MaxAge.String(),
		"size_bytes":     size.TotalBytes,
	}

	if info.Memory.Count > 0 && info.File.Count == 0 {
		return Degraded("file tier empty, cached data will not survive restart").WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d entries cached", info.Memory.Count)).WithDetails(details)
}

// Snapshotter exposes the last produced dataset.
type Snapshotter interface {
	Snapshot() *model.Dataset
}

// DatasetChecker verifies a dataset exists and is not stale. Missing data
// is degraded, not unhealthy: the service is up and a refresh may still
// be in flight.
type DatasetChecker struct {
	snap     Snapshotter
	maxStale time.Duration
}

// NewDatasetChecker wraps a snapshot source. Datasets older than maxStale
// degrade the verdict; non-positive maxStale means staleness is ignored.
func NewDatasetChecker(snap Snapshotter, maxStale time.Duration) *DatasetChecker {
	return &DatasetChecker{snap: snap, maxStale: maxStale}
}

func (c *DatasetChecker) Name() string { return "dataset" }

func (c *DatasetChecker) Check(ctx context.Context) Result {
	ds := c.snap.Snapshot()
	if ds == nil {
		return Degraded("no dataset produced yet")
	}

	age := time.Since(ds.GeneratedAt)
	details := map[string]any{
		"locations":    len(ds.Locations),
		"generated_at": ds.GeneratedAt.UTC().Format(time.RFC3339),
		"age":          age.Round(time.Second).String(),
	}

	if c.maxStale > 0 && age > c.maxStale {
		return Degraded(fmt.Sprintf("dataset stale by %s", (age - c.maxStale).Round(time.Second))).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d locations current", len(ds.Locations))).WithDetails(details)
}

var (
	_ Checker = (*SourceChecker)(nil)
	_ Checker = (*CacheChecker)(nil)
	_ Checker = (*DatasetChecker)(nil)
)
