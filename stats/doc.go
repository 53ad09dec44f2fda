// Package stats normalizes raw location records into the canonical,
// display-ready schema and computes aggregate statistics over them.
//
// Normalization fills safe defaults, re-applies the recovery-rate
// correction defensively, derives per-location rates and risk levels, and
// formats numbers for display. Processing never fails wholesale: invalid
// records are dropped with a log line and the batch continues.
package stats
