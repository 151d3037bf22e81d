package controller

import "errors"

var (
	// ErrUnknownController is a configuration error: the registry was
	// asked for a name it doesn't carry.
	ErrUnknownController = errors.New("controller: unknown controller name")

	// ErrNoOnion is the transient-miss error raised when
	// PreRLayeredTransition is queried for an automaton state with no
	// configured transition or onion.
	ErrNoOnion = errors.New("controller: no onion configured for automaton state")

	// ErrUnknownState is returned when a control query names a system
	// state the abstraction doesn't have.
	ErrUnknownState = errors.New("controller: unknown system state")

	// ErrOuterState is returned when a control query targets an outer
	// state, which has no actions to choose among.
	ErrOuterState = errors.New("controller: outer state has no actions")

	// ErrNoFeasibleAction is a transient miss: every action scored
	// equally unusable (e.g. the state has no actions at all).
	ErrNoFeasibleAction = errors.New("controller: no feasible action found")

	// ErrInconsistentState is raised when a trace is started with an
	// explicit state label whose polytope does not contain the origin
	// point.
	ErrInconsistentState = errors.New("controller: origin point not in the given state's polytope")

	// ErrSuccessorOutsideSystem is the invariant violation raised
	// when a non-outer state's successor point maps outside every cell.
	ErrSuccessorOutsideSystem = errors.New("controller: successor point outside every abstraction cell")
)
