package game

import "errors"

var (
	// ErrEmptyMoves is the invariant violation raised when a non-sink
	// P1 state ends up with zero moves after construction.
	ErrEmptyMoves = errors.New("game: non-sink state has no moves")

	// ErrInitialStateMissing is raised if an initial state fails to appear
	// in the constructed arena.
	ErrInitialStateMissing = errors.New("game: initial state not present in game")

	// ErrNoInitialStates is raised when construction produces zero initial
	// states (an empty abstraction).
	ErrNoInitialStates = errors.New("game: no initial states constructed")
)
