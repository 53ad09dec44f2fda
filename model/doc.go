// Package model defines the location record types exchanged between the
// fetch, stats, and pipeline packages, along with the bounding rules that
// keep case, death, and recovery counts mutually consistent.
package model
