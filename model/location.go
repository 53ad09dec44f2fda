package model

import "time"

// LocationType discriminates the granularity of a location record.
type LocationType string

const (
	// LocationCity is a city-level record derived by proportional estimation.
	LocationCity LocationType = "city"
	// LocationRegion is a state or province reported by the regional source.
	LocationRegion LocationType = "state"
	// LocationCountry is a country aggregate from the global source.
	LocationCountry LocationType = "country"
)

// RiskLevel is a coarse bucket derived from the infection rate.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Risk classification thresholds on active cases per 100k population.
const (
	CriticalInfectionRate = 5000.0
	HighInfectionRate     = 2000.0
	MediumInfectionRate   = 500.0
)

// RiskFor classifies an infection rate (active cases per 100k).
func RiskFor(infectionRate float64) RiskLevel {
	switch {
	case infectionRate >= CriticalInfectionRate:
		return RiskCritical
	case infectionRate >= HighInfectionRate:
		return RiskHigh
	case infectionRate >= MediumInfectionRate:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Location is the as-fetched shape for a city, region, or country before
// normalization. Counts may be estimates; Estimated marks records whose
// recovered figure was substituted by the correction heuristic, with the
// substituted value recorded in Estimation.
type Location struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	Region      string       `json:"region,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Population  int64        `json:"population"`
	Cases       int64        `json:"cases"`
	Deaths      int64        `json:"deaths"`
	Recovered   int64        `json:"recovered"`
	Active      int64        `json:"active"`
	Updated     int64        `json:"updated,omitempty"`
	Type        LocationType `json:"type"`
	Estimated   bool         `json:"estimated"`
	Estimation  *int64       `json:"estimation,omitempty"`
}

// CanonicalLocation is a Location enriched with derived rates, risk
// classification, and display-ready formatting. Instances are produced by
// the stats package and are not mutated afterwards.
type CanonicalLocation struct {
	Location

	InfectionRate float64   `json:"infection_rate"`
	MortalityRate float64   `json:"mortality_rate"`
	RecoveryRate  float64   `json:"recovery_rate"`
	Risk          RiskLevel `json:"risk_level"`
	MarkerColor   string    `json:"marker_color"`
	MarkerScale   float64   `json:"marker_scale"`

	CasesFormatted      string `json:"cases_formatted"`
	DeathsFormatted     string `json:"deaths_formatted"`
	RecoveredFormatted  string `json:"recovered_formatted"`
	PopulationFormatted string `json:"population_formatted"`
	EstimationFormatted string `json:"estimation_formatted,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}
