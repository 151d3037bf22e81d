package controller

import (
	"math/rand"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/solver"
)

// RoundRobin cycles through a state's actions, preferring one whose every
// support's targets are all classified "yes" for the automaton successor,
// and otherwise advancing the cycle regardless. It keeps a per-(S, q)
// index of the last selected action.
type RoundRobin struct {
	sys       *abstraction.AbstractedLSS
	results   map[string]*solver.Result
	rng       *rand.Rand
	lastIndex map[string]int
}

// NewRoundRobin builds a RoundRobin controller over sys using the given
// analysis results to judge which actions stay winning.
func NewRoundRobin(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, rng *rand.Rand) *RoundRobin {
	return &RoundRobin{sys: sys, results: results, rng: rng, lastIndex: make(map[string]int)}
}

// Reset clears the per-(S, q) round-robin indices.
func (c *RoundRobin) Reset() { c.lastIndex = make(map[string]int) }

// Control implements Controller.
func (c *RoundRobin) Control(x geometry.Vec, stateLabel, q string) (geometry.Vec, error) {
	st, ok := c.sys.State(stateLabel)
	if !ok {
		return nil, ErrUnknownState
	}
	if st.Outer {
		return nil, ErrOuterState
	}
	n := len(st.Actions)
	if n == 0 {
		return nil, ErrNoFeasibleAction
	}

	key := stateLabel + "|" + q
	start := (c.lastIndex[key] + 1) % n

	qNext := ""
	if r, ok := c.results[stateLabel]; ok {
		qNext = r.Next[q]
	}

	chosen := -1
	for i := 0; i < n; i++ {
		a := (start + i) % n
		if qNext != "" && c.actionStaysWinning(st.Actions[a], qNext) {
			chosen = a
			break
		}
	}
	if chosen < 0 {
		chosen = start
	}
	c.lastIndex[key] = chosen

	return st.Actions[chosen].Control.Sample(c.rng)
}

func (c *RoundRobin) actionStaysWinning(a abstraction.Action, qNext string) bool {
	for _, sup := range a.Supports {
		for _, target := range sup.Targets {
			r, ok := c.results[target]
			if !ok {
				return false
			}
			if _, yes := r.Yes[qNext]; !yes {
				return false
			}
		}
	}
	return true
}
