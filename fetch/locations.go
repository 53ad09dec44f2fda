package fetch

import (
	"context"
	"sort"

	"github.com/jonwraymond/epitrack/model"
	"github.com/jonwraymond/epitrack/observe"
)

// regionalCountry is the country whose subdivisions the regional source
// reports.
const regionalCountry = "USA"

// Major-country tier thresholds.
const (
	majorCountryMinPopulation = 10000000
	majorCountryMinCases      = 100000
	majorCountryLimit         = 50
)

// FetchAllLocations produces one fully-populated set of location records:
// the reference cities via proportional estimation, then one record per
// available region, then the major-country tier. Country data is the anchor
// for everything else, so without it the result is empty; regional data is
// optional enrichment. Records that fail to derive are skipped, never
// fatal.
func (c *Client) FetchAllLocations(ctx context.Context) []model.Location {
	countries := c.FetchCountries(ctx)
	if countries == nil {
		c.log.Error(ctx, "cannot build location records without country data")
		return []model.Location{}
	}

	regions := c.FetchRegions(ctx)
	regionLookup := make(map[string]Region, len(regions))
	for _, r := range regions {
		regionLookup[r.Name] = r
	}

	countryLookup := make(map[string]Country, len(countries))
	for _, country := range countries {
		countryLookup[country.Country] = country
		if alias, ok := countryAliases[country.Country]; ok {
			countryLookup[alias] = country
		}
	}

	locations := make([]model.Location, 0, len(majorWorldCities)+len(regions)+majorCountryLimit)

	for _, city := range majorWorldCities {
		country, ok := countryLookup[city.Country]
		if !ok {
			c.log.Warn(ctx, "no country data for city",
				observe.F("city", city.Name), observe.F("country", city.Country))
			continue
		}

		var region *Region
		if city.Region != "" {
			if r, ok := regionLookup[city.Region]; ok {
				region = &r
			}
		}

		loc, err := allocateCity(city, country, region)
		if err != nil {
			c.log.Warn(ctx, "skipping city record",
				observe.F("city", city.Name), observe.F("error", err.Error()))
			continue
		}
		locations = append(locations, loc)
	}

	for _, region := range regions {
		locations = append(locations, regionRecord(region))
	}

	for _, country := range majorCountries(countries) {
		coords := countryCoordinates[country.Country]
		locations = append(locations, countryRecord(country, coords))
	}

	c.log.Info(ctx, "built location records", observe.F("count", len(locations)))
	return locations
}

// majorCountries selects countries significant enough for their own marker:
// population above 10M or case count above 100k, with known reference
// coordinates, capped to the top 50 by case count.
func majorCountries(countries []Country) []Country {
	major := make([]Country, 0, len(countries))
	for _, country := range countries {
		if country.Country == "" {
			continue
		}
		if country.Population <= majorCountryMinPopulation && country.Cases <= majorCountryMinCases {
			continue
		}
		if _, ok := countryCoordinates[country.Country]; !ok {
			continue
		}
		major = append(major, country)
	}

	sort.SliceStable(major, func(i, j int) bool {
		return major[i].Cases > major[j].Cases
	})
	if len(major) > majorCountryLimit {
		major = major[:majorCountryLimit]
	}
	return major
}
