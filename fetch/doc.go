// Package fetch retrieves raw epidemiological aggregates from the upstream
// global and regional APIs and turns them into per-location records.
//
// Country and region aggregates are fetched with bounded retry and backoff;
// city-level figures, which no upstream reports individually, are derived
// from a fixed reference table of notable world cities by
// population-proportional allocation with a recovery-rate correction.
//
// The retry boundary lives entirely inside this package: an upstream that
// stays down after every attempt yields a nil result, never an error that
// escapes to the pipeline.
package fetch
