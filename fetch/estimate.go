package fetch

import (
	"fmt"

	"github.com/jonwraymond/epitrack/model"
)

// allocateCity derives a city-level record by population-proportional
// allocation. The allocation ratio depends on the best available anchor:
//
//   - a region aggregate covering the city: the city takes
//     min(1.5 * cityPop/regionPop, 0.30) of the region's figures
//   - a region concept without data: min(2 * cityPop/countryPop, 0.15)
//     of the country's figures
//   - no region concept at all: min(3 * cityPop/countryPop, 0.20) of the
//     country's figures
//
// The derived counts then pass through the bounding caps and the recovery
// correction, so the returned record already satisfies the count
// invariants.
func allocateCity(city cityRef, country Country, region *Region) (model.Location, error) {
	if city.Population <= 0 {
		return model.Location{}, fmt.Errorf("city %s has no population", city.Name)
	}

	countryPop := country.Population
	if countryPop < 1 {
		countryPop = 1
	}
	populationRatio := float64(city.Population) / float64(countryPop)

	var ratio float64
	var base Country
	updated := country.Updated

	switch {
	case city.Region != "" && region != nil:
		regionPop := region.Population
		if regionPop < 1 {
			regionPop = 1
		}
		ratio = float64(city.Population) / float64(regionPop) * model.RegionAllocationBoost
		if ratio > model.MaxRegionAllocationShare {
			ratio = model.MaxRegionAllocationShare
		}
		base = Country{
			Cases:     region.Cases,
			Deaths:    region.Deaths,
			Recovered: region.Recovered,
			Active:    region.Active,
		}
		updated = region.Updated

	case city.Region != "":
		ratio = populationRatio * model.CountryFallbackBoost
		if ratio > model.MaxCountryFallbackShare {
			ratio = model.MaxCountryFallbackShare
		}
		base = country

	default:
		ratio = populationRatio * model.CountryAllocationBoost
		if ratio > model.MaxCountryAllocationShare {
			ratio = model.MaxCountryAllocationShare
		}
		base = country
	}

	loc := model.Location{
		Name:       city.Name,
		Country:    city.Country,
		Region:     city.Region,
		Latitude:   city.Lat,
		Longitude:  city.Lon,
		Population: city.Population,
		Cases:      int64(float64(base.Cases) * ratio),
		Deaths:     int64(float64(base.Deaths) * ratio),
		Recovered:  int64(float64(base.Recovered) * ratio),
		Active:     int64(float64(base.Active) * ratio),
		Updated:    updated,
		Type:       model.LocationCity,
	}

	loc.ClampCounts()
	loc.CorrectRecovery()
	return loc, nil
}

// regionRecord turns a region aggregate into a location record, applying
// the recovery correction directly; regional recovery figures are as
// unreliable as city-derived ones.
func regionRecord(region Region) model.Location {
	pop := region.Population
	if pop <= 0 {
		pop = 1000000
	}
	c := regionCoordinate(region.Name)

	loc := model.Location{
		Name:        region.Name,
		Country:     regionalCountry,
		Region:      region.Name,
		DisplayName: region.Name + ", " + regionalCountry,
		Latitude:    c.Lat,
		Longitude:   c.Lon,
		Population:  pop,
		Cases:       region.Cases,
		Deaths:      region.Deaths,
		Recovered:   region.Recovered,
		Active:      region.Active,
		Updated:     region.Updated,
		Type:        model.LocationRegion,
	}

	loc.CorrectRecovery()
	return loc
}

// countryRecord turns a country aggregate into a location record with the
// given reference coordinates and the recovery correction applied.
func countryRecord(country Country, c coord) model.Location {
	pop := country.Population
	if pop <= 0 {
		pop = 1
	}

	loc := model.Location{
		Name:        country.Country,
		Country:     country.Country,
		DisplayName: country.Country,
		Latitude:    c.Lat,
		Longitude:   c.Lon,
		Population:  pop,
		Cases:       country.Cases,
		Deaths:      country.Deaths,
		Recovered:   country.Recovered,
		Active:      country.Active,
		Updated:     country.Updated,
		Type:        model.LocationCountry,
	}

	loc.CorrectRecovery()
	return loc
}
