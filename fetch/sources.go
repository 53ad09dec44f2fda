package fetch

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/epitrack/observe"
)

// GlobalSummary is the worldwide aggregate from the global source.
type GlobalSummary struct {
	Cases     int64 `json:"cases"`
	Deaths    int64 `json:"deaths"`
	Recovered int64 `json:"recovered"`
	Active    int64 `json:"active"`
	Updated   int64 `json:"updated"`
}

// Country is one country aggregate from the global source.
type Country struct {
	Country    string `json:"country"`
	Population int64  `json:"population"`
	Cases      int64  `json:"cases"`
	Deaths     int64  `json:"deaths"`
	Recovered  int64  `json:"recovered"`
	Active     int64  `json:"active"`
	Updated    int64  `json:"updated"`
}

// Region is one state or province aggregate from the regional source.
type Region struct {
	Name       string `json:"state"`
	Population int64  `json:"population"`
	Cases      int64  `json:"cases"`
	Deaths     int64  `json:"deaths"`
	Recovered  int64  `json:"recovered"`
	Active     int64  `json:"active"`
	Updated    int64  `json:"updated"`
}

// Wire shapes with pointer fields so that required-field presence can be
// distinguished from a zero count. A record failing its presence check is
// upstream schema drift, handled the same way as unavailability.

type globalWire struct {
	Cases     *int64 `json:"cases"`
	Deaths    *int64 `json:"deaths"`
	Recovered *int64 `json:"recovered"`
	Active    int64  `json:"active"`
	Updated   *int64 `json:"updated"`
}

func (w globalWire) valid() bool {
	return w.Cases != nil && w.Deaths != nil && w.Recovered != nil && w.Updated != nil
}

type countryWire struct {
	Country    string `json:"country"`
	Population int64  `json:"population"`
	Cases      *int64 `json:"cases"`
	Deaths     *int64 `json:"deaths"`
	Recovered  *int64 `json:"recovered"`
	Active     int64  `json:"active"`
	Updated    int64  `json:"updated"`
}

func (w countryWire) valid() bool {
	return w.Country != "" && w.Cases != nil && w.Deaths != nil && w.Recovered != nil
}

type regionWire struct {
	Name       string `json:"state"`
	Population int64  `json:"population"`
	Cases      *int64 `json:"cases"`
	Deaths     int64  `json:"deaths"`
	Recovered  int64  `json:"recovered"`
	Active     int64  `json:"active"`
	Updated    int64  `json:"updated"`
}

func (w regionWire) valid() bool {
	return w.Name != "" && w.Cases != nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// FetchGlobal retrieves the worldwide summary. A transport failure or a
// payload missing a required field both yield nil.
func (c *Client) FetchGlobal(ctx context.Context) *GlobalSummary {
	raw := c.fetchWithRetry(ctx, "global_summary", c.globalBase+"/all")
	if raw == nil {
		return nil
	}

	var w globalWire
	if err := json.Unmarshal(raw, &w); err != nil || !w.valid() {
		c.log.Error(ctx, "global summary failed shape check")
		return nil
	}

	c.log.Info(ctx, "fetched global summary")
	return &GlobalSummary{
		Cases:     deref(w.Cases),
		Deaths:    deref(w.Deaths),
		Recovered: deref(w.Recovered),
		Active:    w.Active,
		Updated:   deref(w.Updated),
	}
}

// FetchCountries retrieves all country aggregates. Individual entries that
// fail the shape check are skipped; an empty or undecodable payload yields
// nil.
func (c *Client) FetchCountries(ctx context.Context) []Country {
	raw := c.fetchWithRetry(ctx, "countries", c.globalBase+"/countries")
	if raw == nil {
		return nil
	}

	var wires []countryWire
	if err := json.Unmarshal(raw, &wires); err != nil || len(wires) == 0 {
		c.log.Error(ctx, "countries payload failed shape check")
		return nil
	}

	countries := make([]Country, 0, len(wires))
	for _, w := range wires {
		if !w.valid() {
			c.log.Warn(ctx, "skipping malformed country entry", observe.F("country", w.Country))
			continue
		}
		countries = append(countries, Country{
			Country:    w.Country,
			Population: w.Population,
			Cases:      deref(w.Cases),
			Deaths:     deref(w.Deaths),
			Recovered:  deref(w.Recovered),
			Active:     w.Active,
			Updated:    w.Updated,
		})
	}
	if len(countries) == 0 {
		return nil
	}

	c.log.Info(ctx, "fetched country aggregates", observe.F("count", len(countries)))
	return countries
}

// FetchRegions retrieves the regional aggregates, indexed downstream by
// region name. Failure yields nil; the caller treats missing regional data
// as optional enrichment, not an error.
func (c *Client) FetchRegions(ctx context.Context) []Region {
	raw := c.fetchWithRetry(ctx, "regions", c.regionalBase+"/states")
	if raw == nil {
		return nil
	}

	var wires []regionWire
	if err := json.Unmarshal(raw, &wires); err != nil || len(wires) == 0 {
		c.log.Error(ctx, "regions payload failed shape check")
		return nil
	}

	regions := make([]Region, 0, len(wires))
	for _, w := range wires {
		if !w.valid() {
			c.log.Warn(ctx, "skipping malformed region entry", observe.F("region", w.Name))
			continue
		}
		regions = append(regions, Region{
			Name:       w.Name,
			Population: w.Population,
			Cases:      deref(w.Cases),
			Deaths:     w.Deaths,
			Recovered:  w.Recovered,
			Active:     w.Active,
			Updated:    w.Updated,
		})
	}
	if len(regions) == 0 {
		return nil
	}

	c.log.Info(ctx, "fetched region aggregates", observe.F("count", len(regions)))
	return regions
}
