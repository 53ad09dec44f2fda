package fetch

import (
	"context"
	"time"
)

// GlobalSourceStatus reports per-endpoint availability of the global
// statistics API.
type GlobalSourceStatus struct {
	Available bool `json:"available"`
	Summary   bool `json:"global_data"`
	Countries bool `json:"countries_data"`
}

// RegionalSourceStatus reports availability of the regional
// health-authority API.
type RegionalSourceStatus struct {
	Available bool `json:"available"`
	Regions   bool `json:"regions_data"`
}

// SourceReport is a point-in-time availability snapshot of every upstream
// endpoint, produced for operational health checks. It is independent of
// the refresh path and consults no cache.
type SourceReport struct {
	Timestamp time.Time            `json:"timestamp"`
	Global    GlobalSourceStatus   `json:"global_source"`
	Regional  RegionalSourceStatus `json:"regional_source"`
}

// SourceHealth probes each upstream endpoint and reports what answered.
func (c *Client) SourceHealth(ctx context.Context) SourceReport {
	report := SourceReport{Timestamp: time.Now()}

	report.Global.Summary = c.probeEndpoint(ctx, c.globalBase+"/all")
	report.Global.Countries = c.probeEndpoint(ctx, c.globalBase+"/countries")
	report.Global.Available = report.Global.Summary || report.Global.Countries

	report.Regional.Regions = c.probeEndpoint(ctx, c.regionalBase+"/states")
	report.Regional.Available = report.Regional.Regions

	return report
}
