// Package health reports whether the pipeline is fit to serve: upstream
// sources reachable, cache tiers populated, and the current dataset not
// too stale. Checkers run in parallel under a shared deadline and feed
// the liveness, readiness, and detailed status endpoints.
package health
