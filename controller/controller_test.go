package controller

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/game"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/solver"
)

func mustBox(t *testing.T, lo, hi []float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(lo, hi)
	require.NoError(t, err)
	return b
}

func reachabilityAutomaton(t *testing.T) *automaton.Automaton {
	t.Helper()
	b := automaton.NewBuilder()
	require.NoError(t, b.AddTransition("q0", "p1", "q1"))
	require.NoError(t, b.AddTransition("q0", "", "q0"))
	require.NoError(t, b.AddTransition("q1", "", "q1"))
	b.SetInitial("q0")
	b.AddToF("q1")
	a, err := b.Build()
	require.NoError(t, err)
	return a
}

func reachabilityTest() automaton.Test {
	return func(label string, preds automaton.PredicateSet) bool {
		return preds.Contains(label)
	}
}

func reachabilityOn1DIdentitySystem(t *testing.T) *abstraction.AbstractedLSS {
	t.Helper()
	d, err := geometry.NewDynamics(geometry.Identity(1), geometry.Identity(1))
	require.NoError(t, err)
	state, err := geometry.NewBox([]float64{0}, []float64{4})
	require.NoError(t, err)
	control := geometry.NewRegion(mustBox(t, []float64{-1}, []float64{1}))
	disturbance, err := geometry.NewBox([]float64{-0.05}, []float64{0.05})
	require.NoError(t, err)

	sys, err := abstraction.BuildGrid(state, []int{2}, d, disturbance, control,
		abstraction.WithPredicate("p1", func(cell geometry.Box) bool { return cell.Lo[0] >= 2 }),
	)
	require.NoError(t, err)
	return sys
}

func analyzedReachabilityOn1DIdentitySystem(t *testing.T) (*abstraction.AbstractedLSS, *automaton.Automaton, map[string]*solver.Result) {
	t.Helper()
	sys := reachabilityOn1DIdentitySystem(t)
	a := reachabilityAutomaton(t)
	g, err := game.Build(sys, a, reachabilityTest(), false)
	require.NoError(t, err)
	results, err := solver.Analyze(g, a, sys, reachabilityTest(), false)
	require.NoError(t, err)
	return sys, a, results
}

func TestRandomControllerSamplesWithinControlRegion(t *testing.T) {
	sys, _, _ := analyzedReachabilityOn1DIdentitySystem(t)
	c := NewRandom(sys, rand.New(rand.NewSource(7)))
	label := sys.StateLabels()[0]
	u, err := c.Control(geometry.Vec{0.5}, label, "q0")
	require.NoError(t, err)
	assert.True(t, sys.ControlAll.Contains(u))
}

func TestRoundRobinCyclesActionsAcrossCalls(t *testing.T) {
	sys, _, results := analyzedReachabilityOn1DIdentitySystem(t)
	c := NewRoundRobin(sys, results, rand.New(rand.NewSource(3)))
	var label string
	for _, l := range sys.StateLabels() {
		if st, _ := sys.State(l); !st.Outer {
			label = l
			break
		}
	}
	require.NotEmpty(t, label)

	u1, err := c.Control(geometry.Vec{0.5}, label, "q0")
	require.NoError(t, err)
	assert.True(t, sys.ControlAll.Contains(u1))
	_, recorded := c.lastIndex[label+"|q0"]
	require.True(t, recorded)

	u2, err := c.Control(geometry.Vec{0.5}, label, "q0")
	require.NoError(t, err)
	assert.True(t, sys.ControlAll.Contains(u2))
}

func TestPreRLayeredTransitionBuildsOnionAndCachesControl(t *testing.T) {
	sys, _, results := analyzedReachabilityOn1DIdentitySystem(t)
	var label string
	for _, l := range sys.StateLabels() {
		if st, _ := sys.State(l); !st.Outer {
			label = l
			break
		}
	}
	require.NotEmpty(t, label)

	c := NewPreRLayeredTransition(sys, results, map[string]string{"q0": "q1"}, rand.New(rand.NewSource(5)))
	u1, err := c.Control(geometry.Vec{0.5}, label, "q0")
	require.NoError(t, err)
	assert.True(t, sys.ControlAll.Contains(u1))

	// Second query for the same (S, q) must hit the cache and stay within
	// the same memoised control polytope.
	cached, ok := c.cache[label+"|q0"]
	require.True(t, ok)
	u2, err := c.Control(geometry.Vec{0.5}, label, "q0")
	require.NoError(t, err)
	assert.True(t, cached.Contains(u2))
}

func TestPreRLayeredTransitionErrorsWithoutTransition(t *testing.T) {
	sys, _, results := analyzedReachabilityOn1DIdentitySystem(t)
	label := sys.StateLabels()[0]
	c := NewPreRLayeredTransition(sys, results, map[string]string{}, rand.New(rand.NewSource(5)))
	_, err := c.Control(geometry.Vec{0.5}, label, "q0")
	assert.ErrorIs(t, err, ErrNoOnion)
}

func TestRegistryBuildsAllThreeControllers(t *testing.T) {
	sys, _, results := analyzedReachabilityOn1DIdentitySystem(t)
	for _, name := range []string{NameRandom, NameRoundRobin, NamePreRLayeredTransition} {
		c, err := New(name, sys, WithResults(results), WithTransitions(map[string]string{"q0": "q1"}))
		require.NoError(t, err)
		assert.NotNil(t, c)
	}
	_, err := New("Nonexistent", sys)
	assert.ErrorIs(t, err, ErrUnknownController)
}

func TestTraceStepMaintainsPointInPolytopeInvariant(t *testing.T) {
	sys, a, results := analyzedReachabilityOn1DIdentitySystem(t)
	ctrl, err := New(NameRandom, sys, WithResults(results))
	require.NoError(t, err)

	tr, err := NewTrace(sys, a, reachabilityTest(), ctrl, false, rand.New(rand.NewSource(9)), geometry.Vec{0.5}, "", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		step, ok, err := tr.Step()
		require.NoError(t, err)
		if !ok {
			break
		}
		s0, found := sys.State(step.S0)
		require.True(t, found)
		if !s0.Outer {
			assert.True(t, s0.Polytope.Contains(step.X0))
		}
		s1, found := sys.State(step.S1)
		require.True(t, found)
		if !s1.Outer {
			assert.True(t, s1.Polytope.Contains(step.X1))
		}
	}
}

func TestTraceEndsOnOuterState(t *testing.T) {
	sys, a, results := analyzedReachabilityOn1DIdentitySystem(t)
	ctrl, err := New(NameRandom, sys, WithResults(results))
	require.NoError(t, err)

	var outerLabel string
	for _, l := range sys.StateLabels() {
		if st, _ := sys.State(l); st.Outer {
			outerLabel = l
			break
		}
	}
	require.NotEmpty(t, outerLabel)

	tr, err := NewTrace(sys, a, reachabilityTest(), ctrl, false, rand.New(rand.NewSource(9)), geometry.Vec{1000}, outerLabel, "q0")
	require.NoError(t, err)
	_, ok, err := tr.Step()
	require.NoError(t, err)
	assert.False(t, ok)
}
