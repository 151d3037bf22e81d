package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/geometry"
)

// reachabilityAutomaton builds a two-state "F p1" automaton: q0 loops on
// ¬p1, moves to q1 (accepting) on p1; q1 self-loops forever.
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

func e1System(t *testing.T) *abstraction.AbstractedLSS {
	t.Helper()
	d, err := geometry.NewDynamics(geometry.Identity(1), geometry.Identity(1))
	require.NoError(t, err)
	state, err := geometry.NewBox([]float64{0}, []float64{4})
	require.NoError(t, err)
	control := geometry.NewRegion(mustBox(t, []float64{-1}, []float64{1}))
	disturbance, err := geometry.NewBox([]float64{0}, []float64{0})
	require.NoError(t, err)

	sys, err := abstraction.BuildGrid(state, []int{2}, d, disturbance, control,
		abstraction.WithPredicate("p1", func(cell geometry.Box) bool { return cell.Lo[0] >= 2 }),
	)
	require.NoError(t, err)
	return sys
}

func mustBox(t *testing.T, lo, hi []float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(lo, hi)
	require.NoError(t, err)
	return b
}

func TestBuildProducesInitialStateForEverySystemLabel(t *testing.T) {
	sys := e1System(t)
	a := reachabilityAutomaton(t)
	g, err := Build(sys, a, reachabilityTest(), false)
	require.NoError(t, err)
	assert.Len(t, g.Initial, len(sys.StateLabels()))
}

func TestBuildEndSinkIsSelfAbsorbing(t *testing.T) {
	sys := e1System(t)
	a := reachabilityAutomaton(t)
	g, err := Build(sys, a, reachabilityTest(), false)
	require.NoError(t, err)
	assert.Equal(t, []int{g.EndP2Index}, g.P1[g.EndP1Index].Moves[0])
	assert.Equal(t, []int{g.EndP1Index}, g.P2[g.EndP2Index].Moves[0])
	assert.Equal(t, 1, g.P1[g.EndP1Index].Priority)
}

func TestBuildCoSafeCreatesAbsorbingSatPair(t *testing.T) {
	sys := e1System(t)
	a := reachabilityAutomaton(t)
	g, err := Build(sys, a, reachabilityTest(), true)
	require.NoError(t, err)
	require.GreaterOrEqual(t, g.SatP1Index, 0)
	assert.Equal(t, []int{g.SatP2Index}, g.P1[g.SatP1Index].Moves[0])
	assert.Equal(t, []int{g.SatP1Index}, g.P2[g.SatP2Index].Moves[0])
	assert.Equal(t, 0, g.P1[g.SatP1Index].Priority)

	found := false
	for _, p2 := range g.P2 {
		if p2.Q == "q1" && len(p2.Moves) == 1 && p2.Moves[0][0] == g.SatP1Index {
			found = true
		}
	}
	assert.True(t, found, "expected a P2 state in q1 routed to the SAT sink")
}

func TestEveryNonSinkP1StateHasMoves(t *testing.T) {
	sys := e1System(t)
	a := reachabilityAutomaton(t)
	g, err := Build(sys, a, reachabilityTest(), false)
	require.NoError(t, err)
	for _, st := range g.P1 {
		assert.NotEmpty(t, st.Moves)
	}
}

func TestPriorityExclusivity(t *testing.T) {
	sys := e1System(t)
	a := reachabilityAutomaton(t)
	g, err := Build(sys, a, reachabilityTest(), false)
	require.NoError(t, err)
	for _, st := range g.P1 {
		assert.Contains(t, []int{0, 1, 2}, st.Priority)
	}
	for _, st := range g.P2 {
		assert.Contains(t, []int{0, 1, 2}, st.Priority)
	}
}
