package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/jonwraymond/epitrack/model"
)

// Infection-rate thresholds for the map marker palette, per 100k
// population. Darker colors mark hotter locations.
const (
	markerDarkRedRate   = 5000
	markerRedRate       = 2000
	markerOrangeRedRate = 1000
	markerOrangeRate    = 500
	markerLightRate     = 100

	perHundredThousand = 100_000
)

// Marker scale by location granularity: countries render largest.
const (
	countryScale = 1.5
	regionScale  = 1.2
	cityScale    = 1.0
)

// MarkerColor maps an infection rate per 100k to its palette color.
func MarkerColor(rate float64) string {
	switch {
	case rate >= markerDarkRedRate:
		return "#800026"
	case rate >= markerRedRate:
		return "#BD0026"
	case rate >= markerOrangeRedRate:
		return "#E31A1C"
	case rate >= markerOrangeRate:
		return "#FC4E2A"
	case rate >= markerLightRate:
		return "#FD8D3C"
	default:
		return "#FEB24C"
	}
}

// MarkerScale maps a location type to its relative marker size.
func MarkerScale(t model.LocationType) float64 {
	switch t {
	case model.LocationCountry:
		return countryScale
	case model.LocationRegion:
		return regionScale
	default:
		return cityScale
	}
}

// InfectionRate is active cases per 100k population, rounded to two
// decimals. Population is clamped to at least one.
func InfectionRate(active, population int64) float64 {
	if population < 1 {
		population = 1
	}
	return round2(float64(active) / float64(population) * perHundredThousand)
}

// MortalityRate is deaths as a percentage of cases, rounded to two
// decimals. Zero cases yields zero.
func MortalityRate(deaths, cases int64) float64 {
	if cases <= 0 {
		return 0
	}
	return round2(float64(deaths) / float64(cases) * 100)
}

// RecoveryRate is recoveries as a percentage of cases, rounded to two
// decimals. Zero cases yields zero.
func RecoveryRate(recovered, cases int64) float64 {
	if cases <= 0 {
		return 0
	}
	return round2(float64(recovered) / float64(cases) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// displayName prefixes the location's display name with a glyph marking
// its granularity so map popups read at a glance.
func displayName(l model.Location) string {
	name := l.DisplayName
	if name == "" {
		name = l.Name
		if l.Country != "" && l.Country != l.Name {
			name = l.Name + ", " + l.Country
		}
	}
	switch l.Type {
	case model.LocationCountry:
		return "🌍 " + name
	case model.LocationRegion:
		return "🏛️ " + name
	default:
		return "🏙️ " + name
	}
}

// Normalize converts a raw location record into its canonical form:
// defaults are applied, the recovery correction is re-run, and the
// derived rates, risk level, marker styling, and display strings are
// filled in. Normalize never rejects a record; Validate does that.
func Normalize(raw model.Location) model.CanonicalLocation {
	l := raw
	if l.Population <= 0 {
		l.Population = 1
	}
	l.DisplayName = displayName(l)

	// Records straight from upstream may still carry an implausibly low
	// recovery figure; correcting here keeps downstream math consistent
	// no matter which path produced the record.
	l.CorrectRecovery()

	rate := InfectionRate(l.Active, l.Population)
	c := model.CanonicalLocation{
		Location:      l,
		InfectionRate: rate,
		MortalityRate: MortalityRate(l.Deaths, l.Cases),
		RecoveryRate:  RecoveryRate(l.Recovered, l.Cases),
		Risk:          model.RiskFor(rate),
		MarkerColor:   MarkerColor(rate),
		MarkerScale:   MarkerScale(l.Type),

		CasesFormatted:      FormatNumber(l.Cases),
		DeathsFormatted:     FormatNumber(l.Deaths),
		RecoveredFormatted:  FormatNumber(l.Recovered),
		PopulationFormatted: FormatNumber(l.Population),

		LastUpdated: time.Now().UTC(),
	}
	if l.Estimated && l.Estimation != nil {
		c.EstimationFormatted = FormatNumber(*l.Estimation)
	}
	return c
}

// Validate reports whether a canonical record is fit to publish.
func Validate(c model.CanonicalLocation) error {
	if c.Name == "" {
		return fmt.Errorf("stats: record missing name")
	}
	if c.Country == "" {
		return fmt.Errorf("stats: %s: record missing country", c.Name)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("stats: %s: latitude %v out of range", c.Name, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("stats: %s: longitude %v out of range", c.Name, c.Longitude)
	}
	if c.Population <= 0 {
		return fmt.Errorf("stats: %s: non-positive population %d", c.Name, c.Population)
	}
	if c.Cases < 0 {
		return fmt.Errorf("stats: %s: negative case count %d", c.Name, c.Cases)
	}
	return nil
}
