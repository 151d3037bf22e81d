package controller

import (
	"math"
	"math/rand"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/solver"
)

// residualLayerCost is the weight applied to the share of a post-image
// falling outside every onion layer: that residual volume contributes
// post.volume * 9999 to the action's cost.
const residualLayerCost = 9999.0

// PreRLayeredTransition ranks a state's actions by which PreR onion layer
// their one-step image aims into. Onions are built lazily, one per
// automaton state q, from the caller-supplied transition map q -> q'.
type PreRLayeredTransition struct {
	sys         *abstraction.AbstractedLSS
	results     map[string]*solver.Result
	transitions map[string]string
	rng         *rand.Rand

	onions map[string]Onion
	cache  map[string]geometry.Region
}

// NewPreRLayeredTransition builds a controller that, for each automaton
// state q present in transitions, lazily constructs the onion for the
// transition q -> transitions[q].
func NewPreRLayeredTransition(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, transitions map[string]string, rng *rand.Rand) *PreRLayeredTransition {
	return &PreRLayeredTransition{
		sys:         sys,
		results:     results,
		transitions: transitions,
		rng:         rng,
		onions:      make(map[string]Onion),
		cache:       make(map[string]geometry.Region),
	}
}

// Reset clears the per-(S, q) cached control polytopes. Onions survive a
// reset; a refinement invalidates them, so callers should build a fresh
// controller instead of resetting one across a refinement.
func (c *PreRLayeredTransition) Reset() {
	c.cache = make(map[string]geometry.Region)
}

func (c *PreRLayeredTransition) onionFor(q string) (Onion, error) {
	if o, ok := c.onions[q]; ok {
		return o, nil
	}
	qNext, ok := c.transitions[q]
	if !ok {
		return Onion{}, ErrNoOnion
	}
	o, err := BuildOnion(c.sys, c.results, q, qNext)
	if err != nil {
		return Onion{}, err
	}
	c.onions[q] = o
	return o, nil
}

// Control implements Controller.
func (c *PreRLayeredTransition) Control(x geometry.Vec, stateLabel, q string) (geometry.Vec, error) {
	key := stateLabel + "|" + q
	if cached, ok := c.cache[key]; ok {
		return cached.Sample(c.rng)
	}

	st, ok := c.sys.State(stateLabel)
	if !ok {
		return nil, ErrUnknownState
	}
	if st.Outer {
		return nil, ErrOuterState
	}
	if len(st.Actions) == 0 {
		return nil, ErrNoFeasibleAction
	}

	onion, err := c.onionFor(q)
	if err != nil {
		return nil, err
	}

	totalVolume := st.Polytope.Volume()
	if totalVolume <= 0 {
		return nil, ErrNoFeasibleAction
	}

	bestScore := math.Inf(-1)
	bestAction := -1
	for a, action := range st.Actions {
		post := geometry.Post(st.Polytope, action.Control, c.sys.Dynamics, c.sys.Disturbance)
		remaining := post
		var cost float64
		for i, layer := range onion.Layers {
			inLayer := remaining.Intersect(layer)
			cost += inLayer.Volume() * float64(i)
			remaining = remaining.Remove(layer)
		}
		cost += remaining.Volume() * residualLayerCost
		score := -cost / totalVolume
		if score > bestScore {
			bestScore = score
			bestAction = a
		}
	}
	if bestAction < 0 {
		return nil, ErrNoFeasibleAction
	}

	chosen := st.Actions[bestAction].Control
	c.cache[key] = chosen
	return chosen.Sample(c.rng)
}
