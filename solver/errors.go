package solver

import "errors"

var (
	// ErrContradiction is the invariant violation raised when the
	// adversarial winning region is not a subset of the cooperative one.
	ErrContradiction = errors.New("solver: adversarial winning region not contained in cooperative winning region")

	// ErrFixedPointDidNotConverge names a fixed-point iteration that
	// exceeds an iteration cap. Solve has no such cap and never returns
	// it; its loops end when the monotone operators reach a fixed point.
	ErrFixedPointDidNotConverge = errors.New("solver: fixed-point iteration exceeded the arena-bounded iteration cap")
)
