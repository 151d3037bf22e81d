package automaton

import "errors"

// Sentinel configuration errors. All are fatal: a malformed automaton is a
// programmer/input error, never a runtime condition to recover from mid-solve.
var (
	// ErrDuplicateLabel indicates two transitions from the same state share a label.
	ErrDuplicateLabel = errors.New("automaton: duplicate transition label within state")

	// ErrDuplicateDefault indicates a state declares more than one default edge.
	ErrDuplicateDefault = errors.New("automaton: duplicate default transition within state")

	// ErrUnknownInitial indicates the declared initial state label is undefined.
	ErrUnknownInitial = errors.New("automaton: initial state is undefined")

	// ErrUnknownState names a reference to an undeclared state label. Builder
	// and Parse never return it: transition targets and E/F members are
	// declared implicitly when referenced.
	ErrUnknownState = errors.New("automaton: reference to undeclared state")

	// ErrReservedLabel indicates a user automaton used a label reserved by the game constructor.
	ErrReservedLabel = errors.New("automaton: state label collides with a reserved label")

	// ErrMalformedText indicates the textual form did not match the TRANSITIONS | INIT | E | F grammar.
	ErrMalformedText = errors.New("automaton: malformed textual form")
)
