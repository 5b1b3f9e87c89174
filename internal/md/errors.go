package md

import "errors"

// Domain errors for neighbor-search operations.
var (
	// ErrConfiguration indicates invalid geometry or parameters: a degenerate
	// box, non-positive cutoff, cell width or search radius. Fatal to the
	// call that introduced it; no partial state is committed.
	ErrConfiguration = errors.New("md: invalid configuration")

	// ErrInvalidArgument indicates malformed tuning-sweep parameters.
	ErrInvalidArgument = errors.New("md: invalid argument")

	// ErrIndexQuery indicates a structural invariant of a spatial index was
	// violated during a query. This is a logic defect, not a user-input
	// problem, and is unrecoverable.
	ErrIndexQuery = errors.New("md: spatial index query failed")
)
