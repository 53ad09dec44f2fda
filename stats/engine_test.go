package stats

import (
	"context"
	"testing"

	"github.com/jonwraymond/epitrack/model"
)

// rawLocation builds a record whose counts pass the recovery correction
// unchanged, so active cases per 100k come out to exactly
// active/pop * 100000.
func rawLocation(name string, pop, active int64) model.Location {
	return model.Location{
		Name:       name,
		Country:    "Testland",
		Population: pop,
		Cases:      active * 2,
		Recovered:  active,
		Active:     active,
	}
}

// TestEngine_ProcessAll tests normalization, validation, and ordering.
func TestEngine_ProcessAll(t *testing.T) {
	e := NewEngine(Config{})
	raws := []model.Location{
		rawLocation("Mild", 10_000_000, 10_000),         // 100 per 100k
		rawLocation("Hot", 1_000_000, 15_000),           // 1500 per 100k
		rawLocation("Medium", 5_000_000, 30_000),        // 600 per 100k
		{Name: "", Population: 100, Cases: 5},           // invalid, dropped
		{Name: "Offmap", Latitude: 95, Population: 100}, // invalid, dropped
	}

	records := e.ProcessAll(context.Background(), raws)
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3 after dropping invalid records", len(records))
	}

	wantOrder := []string{"Hot", "Medium", "Mild"}
	for i, want := range wantOrder {
		if records[i].Name != want {
			t.Errorf("records[%d] = %q, want %q (infection rate descending)", i, records[i].Name, want)
		}
	}
}

// TestEngine_Summarize tests aggregate math.
func TestEngine_Summarize(t *testing.T) {
	e := NewEngine(Config{})
	records := e.ProcessAll(context.Background(), []model.Location{
		rawLocation("A", 1_000_000, 10_000), // rate 1000
		rawLocation("B", 1_000_000, 20_000), // rate 2000
	})

	s := e.Summarize(records)
	if s.TotalLocations != 2 {
		t.Errorf("TotalLocations = %d, want 2", s.TotalLocations)
	}
	if s.TotalCases != 60_000 {
		t.Errorf("TotalCases = %d, want 60000", s.TotalCases)
	}
	if s.HighestInfectionRate != 2000 {
		t.Errorf("HighestInfectionRate = %v, want 2000", s.HighestInfectionRate)
	}
	if s.LowestInfectionRate != 1000 {
		t.Errorf("LowestInfectionRate = %v, want 1000", s.LowestInfectionRate)
	}
	if s.AverageInfectionRate != 1500 {
		t.Errorf("AverageInfectionRate = %v, want 1500", s.AverageInfectionRate)
	}
	if s.RiskDistribution.Medium != 1 || s.RiskDistribution.High != 1 {
		t.Errorf("RiskDistribution = %+v, want one medium and one high", s.RiskDistribution)
	}
	if s.TotalCasesFormatted != "60.0K" {
		t.Errorf("TotalCasesFormatted = %q, want 60.0K", s.TotalCasesFormatted)
	}
	if s.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

// TestEngine_SummarizeEmpty tests the all-zero summary.
func TestEngine_SummarizeEmpty(t *testing.T) {
	s := NewEngine(Config{}).Summarize(nil)
	if s.TotalLocations != 0 || s.TotalCases != 0 {
		t.Errorf("summary = %+v, want zeros", s)
	}
	if s.TotalCasesFormatted != "0" {
		t.Errorf("TotalCasesFormatted = %q, want %q", s.TotalCasesFormatted, "0")
	}
}

// TestEngine_ToDataset tests dataset packaging and provenance defaults.
func TestEngine_ToDataset(t *testing.T) {
	e := NewEngine(Config{})
	records := e.ProcessAll(context.Background(), []model.Location{
		rawLocation("A", 1_000_000, 10_000),
	})

	ds := e.ToDataset(records)
	if len(ds.Locations) != 1 {
		t.Errorf("Locations = %d, want 1", len(ds.Locations))
	}
	if ds.Statistics.TotalLocations != 1 {
		t.Errorf("Statistics.TotalLocations = %d, want 1", ds.Statistics.TotalLocations)
	}
	if ds.Meta.Source == "" || ds.Meta.UpdateFrequency == "" {
		t.Errorf("Meta = %+v, want provenance defaults", ds.Meta)
	}
	if ds.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

// TestTopByCases tests the case-count ranking.
func TestTopByCases(t *testing.T) {
	e := NewEngine(Config{})
	records := e.ProcessAll(context.Background(), []model.Location{
		rawLocation("Small", 10_000_000, 1_000),
		rawLocation("Large", 10_000_000, 100_000),
		rawLocation("Mid", 10_000_000, 10_000),
	})

	top := TopByCases(records, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Name != "Large" || top[1].Name != "Mid" {
		t.Errorf("order = [%s %s], want [Large Mid]", top[0].Name, top[1].Name)
	}

	if got := TopByCases(records, 0); got != nil {
		t.Errorf("TopByCases(records, 0) = %v, want nil", got)
	}
	if got := TopByCases(records, 10); len(got) != 3 {
		t.Errorf("limit beyond length: len = %d, want 3", len(got))
	}
}

// TestFilterByRisk tests level selection.
func TestFilterByRisk(t *testing.T) {
	e := NewEngine(Config{})
	records := e.ProcessAll(context.Background(), []model.Location{
		rawLocation("Calm", 100_000_000, 10_000), // rate 10, low
		rawLocation("Busy", 1_000_000, 10_000),   // rate 1000, medium
		rawLocation("Surge", 1_000_000, 19_000),  // rate 1900, medium
	})

	medium := FilterByRisk(records, model.RiskMedium)
	if len(medium) != 2 {
		t.Fatalf("len = %d, want 2 medium records", len(medium))
	}
	for _, r := range medium {
		if r.Risk != model.RiskMedium {
			t.Errorf("record %q has risk %v, want medium", r.Name, r.Risk)
		}
	}

	if got := FilterByRisk(records); got != nil {
		t.Errorf("no levels: got %v, want nil", got)
	}
}
