// Package observe provides the telemetry surface for the data pipeline:
// a structured JSON logger, OpenTelemetry tracing and metrics for refresh
// and fetch operations, and pluggable exporters.
//
// All components are optional. When a subsystem is disabled the Observer
// hands out no-op implementations, so callers never branch on telemetry
// being configured.
package observe
