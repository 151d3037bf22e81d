package abstraction

import "errors"

var (
	// ErrUnknownState is returned when a label does not name a state of
	// the system.
	ErrUnknownState = errors.New("abstraction: unknown state label")

	// ErrOuterState names an action-requiring operation on an outer state.
	// No function of this package returns it: ActionCountOf reports 0 for
	// outer states instead.
	ErrOuterState = errors.New("abstraction: outer states have no actions")

	// ErrNoActions is returned when a non-outer state is built with zero
	// actions, violating the "non-empty ordered list of actions" invariant.
	ErrNoActions = errors.New("abstraction: inner state must have at least one action")

	// ErrNoSupports is returned when an action is built with zero supports.
	ErrNoSupports = errors.New("abstraction: action must have at least one support")

	// ErrNoTargets is returned when a support names zero target labels.
	ErrNoTargets = errors.New("abstraction: support must have at least one target")

	// ErrDuplicateLabel is returned when two states share a label.
	ErrDuplicateLabel = errors.New("abstraction: duplicate state label")

	// ErrPointOutsideSystem names a point that maps outside every cell. No
	// function of this package returns it: Locate reports ok=false instead,
	// and the trace executor raises controller.ErrSuccessorOutsideSystem.
	ErrPointOutsideSystem = errors.New("abstraction: point outside system bounds")
)
