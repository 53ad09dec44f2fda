package model

import "time"

// RiskDistribution tallies locations per risk level.
type RiskDistribution struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Add increments the bucket for the given level.
func (d *RiskDistribution) Add(level RiskLevel) {
	switch level {
	case RiskCritical:
		d.Critical++
	case RiskHigh:
		d.High++
	case RiskMedium:
		d.Medium++
	default:
		d.Low++
	}
}

// Summary holds aggregate statistics over a processed dataset. It is
// recomputed on every processing pass and never persisted on its own.
type Summary struct {
	TotalLocations int   `json:"total_locations"`
	TotalCases     int64 `json:"total_cases"`
	TotalDeaths    int64 `json:"total_deaths"`
	TotalRecovered int64 `json:"total_recovered"`

	TotalCasesFormatted     string `json:"total_cases_formatted"`
	TotalDeathsFormatted    string `json:"total_deaths_formatted"`
	TotalRecoveredFormatted string `json:"total_recovered_formatted"`

	AverageInfectionRate float64 `json:"average_infection_rate"`
	HighestInfectionRate float64 `json:"highest_infection_rate"`
	LowestInfectionRate  float64 `json:"lowest_infection_rate"`

	RiskDistribution RiskDistribution `json:"risk_distribution"`

	GeneratedAt time.Time `json:"generated_at"`
}

// DatasetMeta describes the provenance of a dataset.
type DatasetMeta struct {
	Source          string `json:"data_source"`
	UpdateFrequency string `json:"update_frequency"`
}

// Dataset is the unit stored in the cache and handed to callers: the
// canonical locations ordered by infection rate descending, their summary
// statistics, and a generation timestamp. Callers must treat a Dataset as
// immutable; the pipeline replaces the whole value on refresh.
type Dataset struct {
	Locations   []CanonicalLocation `json:"locations"`
	Statistics  Summary             `json:"statistics"`
	Meta        DatasetMeta         `json:"metadata"`
	GeneratedAt time.Time           `json:"generated_at"`
}
