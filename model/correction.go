package model

// Hand-tuned heuristic constants. Upstream recovery figures are frequently
// stale or zero, so implausible records are corrected against these bounds.
// The exact values are preserved as-is; downstream tests depend on them.
const (
	// MinPlausibleRecoveryRate triggers the recovery correction when the
	// fetched recovered/cases ratio falls below it.
	MinPlausibleRecoveryRate = 0.10

	// RecoveredShareOfNonFatal is the assumed share of non-fatal cases that
	// have recovered when substituting a recovered count.
	RecoveredShareOfNonFatal = 0.96

	// MaxRecoveredShareOfCases caps substituted recovered counts.
	MaxRecoveredShareOfCases = 0.95

	// MaxActiveShareOfPopulation caps active cases relative to population.
	MaxActiveShareOfPopulation = 0.02

	// MaxCaseShareOfPopulation caps total cases relative to population.
	MaxCaseShareOfPopulation = 0.30

	// MaxDeathShareOfCases caps deaths relative to total cases.
	MaxDeathShareOfCases = 0.05

	// MinReportedCases floors a nonzero derived case count.
	MinReportedCases = 100
)

// Proportional allocation ratios and their caps, by match tier.
const (
	RegionAllocationBoost     = 1.5
	MaxRegionAllocationShare  = 0.30
	CountryFallbackBoost      = 2.0
	MaxCountryFallbackShare   = 0.15
	CountryAllocationBoost    = 3.0
	MaxCountryAllocationShare = 0.20
)

// CorrectRecovery applies the recovery correction heuristic in place.
//
// If the fetched recovered count implies a recovery rate below
// MinPlausibleRecoveryRate, it is discarded and replaced with
// min(MaxRecoveredShareOfCases*cases, RecoveredShareOfNonFatal*(cases-deaths)),
// the record is marked Estimated, and the substituted value is recorded in
// Estimation. The invariants 0 <= deaths+recovered <= cases and
// active == max(0, cases-deaths-recovered) hold on return, with active
// further capped at MaxActiveShareOfPopulation of the population and
// recovered re-derived when that cap bites.
//
// An Estimated flag set by an earlier pass survives re-application: the
// normalizer re-runs this as a defensive check on records that may have
// bypassed the fetcher, and must not erase the fetcher's marking.
func (l *Location) CorrectRecovery() {
	if l.Cases <= 0 {
		l.Cases = 0
		if l.Deaths < 0 {
			l.Deaths = 0
		}
		l.Recovered = 0
		l.Active = 0
		return
	}

	recoveryRate := float64(l.Recovered) / float64(l.Cases)
	if recoveryRate < MinPlausibleRecoveryRate {
		estimated := int64(float64(l.Cases-l.Deaths) * RecoveredShareOfNonFatal)
		if cap := int64(float64(l.Cases) * MaxRecoveredShareOfCases); estimated > cap {
			estimated = cap
		}
		if estimated < 0 {
			estimated = 0
		}
		l.Recovered = estimated
		l.Estimated = true
		l.setEstimation(estimated)
	}

	if l.Deaths+l.Recovered > l.Cases {
		l.Recovered = l.Cases - l.Deaths
		if l.Recovered < 0 {
			l.Recovered = 0
		}
		if l.Estimated {
			l.setEstimation(l.Recovered)
		}
	}

	active := l.Cases - l.Deaths - l.Recovered
	if active < 0 {
		active = 0
	}
	if maxActive := int64(float64(l.Population) * MaxActiveShareOfPopulation); active > maxActive {
		active = maxActive
		l.Recovered = l.Cases - l.Deaths - active
		if l.Recovered < 0 {
			l.Recovered = 0
		}
		if l.Estimated {
			l.setEstimation(l.Recovered)
		}
	}
	l.Active = active
}

// ClampCounts bounds derived counts against the record's population: cases
// are floored at MinReportedCases once any exist and capped at
// MaxCaseShareOfPopulation of the population, and deaths are capped at
// MaxDeathShareOfCases of the resulting case count.
func (l *Location) ClampCounts() {
	if l.Cases > 0 && l.Cases < MinReportedCases {
		l.Cases = MinReportedCases
	}
	if maxCases := int64(float64(l.Population) * MaxCaseShareOfPopulation); l.Cases > maxCases {
		l.Cases = maxCases
	}
	if maxDeaths := int64(float64(l.Cases) * MaxDeathShareOfCases); l.Deaths > maxDeaths {
		l.Deaths = maxDeaths
	}
}

func (l *Location) setEstimation(v int64) {
	value := v
	l.Estimation = &value
}
