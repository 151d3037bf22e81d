// Package abstraction holds the finite-state abstraction of a linear
// stochastic system: a labelled partition of the state-space polytope into
// system states, each carrying actions, supports and predicate labels.
//
// The game constructor (package game) never touches an AbstractedLSS directly; it
// consumes the GameGraphView interface, so any abstraction — grid-based,
// hand-authored, or refined — can feed the solver as long as it implements
// the five view methods.
package abstraction
