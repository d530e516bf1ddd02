package stream

import "errors"

// Errors returned by the stability-checked preset setters. A setter that
// returns an error leaves the filter's coefficients and state untouched.
var (
	// ErrUnstablePole is returned when a requested pole lies on or
	// outside the unit circle.
	ErrUnstablePole = errors.New("stream: pole magnitude must be less than 1")

	// ErrUnstableCoefficient is returned by SetAllpass when the
	// coefficient magnitude is 1 or larger.
	ErrUnstableCoefficient = errors.New("stream: allpass coefficient magnitude must be less than 1")

	// ErrUnstableRadius is returned by SetResonance when the pole
	// radius falls outside [0, 1).
	ErrUnstableRadius = errors.New("stream: resonance radius must be in [0, 1)")
)
