package domain

import "errors"

// Error kinds the service layer classifies failures into. Handlers map these
// to HTTP outcomes; anything unwrapped is treated as an internal fault.
var (
	// ErrValidation marks missing or malformed required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent rental, student or book. Remote catalog
	// failures are also reported as this, never as infrastructure errors.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks an extend or return attempted on a rental
	// that is already returned.
	ErrInvalidTransition = errors.New("invalid rental transition")

	// ErrConcurrencyConflict marks a failure to acquire the per-rental
	// exclusive lock within the configured timeout.
	ErrConcurrencyConflict = errors.New("concurrent modification in progress")
)
