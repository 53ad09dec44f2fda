package stats

import (
	"context"
	"sort"
	"time"

	"github.com/jonwraymond/epitrack/model"
	"github.com/jonwraymond/epitrack/observe"
)

// Config tunes an Engine.
type Config struct {
	// Source and UpdateFrequency annotate produced datasets.
	Source          string
	UpdateFrequency string

	Logger observe.Logger
}

// Engine turns raw location batches into canonical records and datasets.
type Engine struct {
	meta model.DatasetMeta
	log  observe.Logger
}

// NewEngine builds an Engine, applying defaults for unset fields.
func NewEngine(cfg Config) *Engine {
	if cfg.Source == "" {
		cfg.Source = "disease.sh API"
	}
	if cfg.UpdateFrequency == "" {
		cfg.UpdateFrequency = "24 hours"
	}
	log := cfg.Logger
	if log == nil {
		log = observe.NopLogger()
	}
	return &Engine{
		meta: model.DatasetMeta{
			Source:          cfg.Source,
			UpdateFrequency: cfg.UpdateFrequency,
		},
		log: log.WithComponent("stats"),
	}
}

// ProcessAll normalizes and validates a batch, dropping records that fail
// validation, and returns the survivors sorted by infection rate, highest
// first. The batch never fails as a whole.
func (e *Engine) ProcessAll(ctx context.Context, raws []model.Location) []model.CanonicalLocation {
	out := make([]model.CanonicalLocation, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		c := Normalize(raw)
		if err := Validate(c); err != nil {
			dropped++
			e.log.Warn(ctx, "dropping invalid record", observe.F("error", err.Error()))
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InfectionRate > out[j].InfectionRate
	})
	if dropped > 0 {
		e.log.Info(ctx, "processed location batch",
			observe.F("kept", len(out)), observe.F("dropped", dropped))
	}
	return out
}

// Summarize computes batch-wide totals and rate extremes. An empty batch
// yields an all-zero summary rather than an error.
func (e *Engine) Summarize(records []model.CanonicalLocation) model.Summary {
	s := model.Summary{GeneratedAt: time.Now().UTC()}
	if len(records) == 0 {
		s.TotalCasesFormatted = FormatNumber(0)
		s.TotalDeathsFormatted = FormatNumber(0)
		s.TotalRecoveredFormatted = FormatNumber(0)
		return s
	}

	s.HighestInfectionRate = records[0].InfectionRate
	s.LowestInfectionRate = records[0].InfectionRate
	var rateSum float64
	for _, r := range records {
		s.TotalLocations++
		s.TotalCases += r.Cases
		s.TotalDeaths += r.Deaths
		s.TotalRecovered += r.Recovered
		rateSum += r.InfectionRate
		if r.InfectionRate > s.HighestInfectionRate {
			s.HighestInfectionRate = r.InfectionRate
		}
		if r.InfectionRate < s.LowestInfectionRate {
			s.LowestInfectionRate = r.InfectionRate
		}
		s.RiskDistribution.Add(r.Risk)
	}
	s.AverageInfectionRate = round2(rateSum / float64(len(records)))

	s.TotalCasesFormatted = FormatNumber(s.TotalCases)
	s.TotalDeathsFormatted = FormatNumber(s.TotalDeaths)
	s.TotalRecoveredFormatted = FormatNumber(s.TotalRecovered)
	return s
}

// ToDataset packages processed records and their summary for publication.
func (e *Engine) ToDataset(records []model.CanonicalLocation) model.Dataset {
	return model.Dataset{
		Locations:   records,
		Statistics:  e.Summarize(records),
		Meta:        e.meta,
		GeneratedAt: time.Now().UTC(),
	}
}

// TopByCases returns up to limit records ordered by total cases, highest
// first. The input slice is not modified.
func TopByCases(records []model.CanonicalLocation, limit int) []model.CanonicalLocation {
	if limit <= 0 {
		return nil
	}
	sorted := make([]model.CanonicalLocation, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cases > sorted[j].Cases
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// FilterByRisk returns the records whose risk level is in levels,
// preserving input order.
func FilterByRisk(records []model.CanonicalLocation, levels ...model.RiskLevel) []model.CanonicalLocation {
	want := make(map[model.RiskLevel]bool, len(levels))
	for _, lv := range levels {
		want[lv] = true
	}
	var out []model.CanonicalLocation
	for _, r := range records {
		if want[r.Risk] {
			out = append(out, r)
		}
	}
	return out
}
