package health

import "errors"

var (
	// ErrCheckTimeout reports a check that did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrSourceUnavailable reports an unreachable upstream source.
	ErrSourceUnavailable = errors.New("health: upstream source unavailable")

	// ErrNoDataset reports that no dataset has been produced yet.
	ErrNoDataset = errors.New("health: no dataset produced yet")
)
