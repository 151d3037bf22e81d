package controller

import "github.com/veylan/lssverify/geometry"

// Controller is the policy interface every registered controller
// implements: a builder indexed by string returns a value satisfying
// this contract.
type Controller interface {
	// Reset clears any per-trace state (caches, round-robin indices).
	Reset()
	// Control returns a control vector for origin point x in system state
	// stateLabel at automaton state q.
	Control(x geometry.Vec, stateLabel, q string) (geometry.Vec, error)
}
