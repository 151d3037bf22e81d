package controller

import (
	"math/rand"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/geometry"
)

// Random samples uniformly from the global control polytope, ignoring
// state and automaton state entirely.
type Random struct {
	sys *abstraction.AbstractedLSS
	rng *rand.Rand
}

// NewRandom builds a Random controller over sys's control region.
func NewRandom(sys *abstraction.AbstractedLSS, rng *rand.Rand) *Random {
	return &Random{sys: sys, rng: rng}
}

// Reset is a no-op: Random carries no per-trace state.
func (c *Random) Reset() {}

// Control samples a point from the global control polytope.
func (c *Random) Control(x geometry.Vec, stateLabel, q string) (geometry.Vec, error) {
	v, err := c.sys.ControlAll.Sample(c.rng)
	if err != nil {
		return nil, err
	}
	return v, nil
}
