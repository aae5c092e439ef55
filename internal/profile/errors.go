package profile

import "errors"

// Profile computations surface local, recoverable conditions as typed errors
// so a batch caller can skip the failed session and continue.
var (
	// ErrInvalidGranularity reports a non-positive granularity, or one
	// outside the accepted set for aggregate profiles.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrSchemaMismatch reports a bar violating the OHLCV invariants.
	ErrSchemaMismatch = errors.New("bar schema mismatch")

	// ErrEmptySeries reports an empty bar sequence.
	ErrEmptySeries = errors.New("empty bar series")

	// ErrInsufficientLevels reports a profile too small for price-structure
	// analysis.
	ErrInsufficientLevels = errors.New("not enough price levels")
)
