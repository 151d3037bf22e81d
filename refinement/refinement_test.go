package refinement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/geometry"
)

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

func TestRunProducesIncreasinglyFineAbstractions(t *testing.T) {
	d, err := geometry.NewDynamics(geometry.Identity(1), geometry.Identity(1))
	require.NoError(t, err)
	disturbance, err := geometry.NewBox([]float64{-0.05}, []float64{0.05})
	require.NoError(t, err)
	control := geometry.NewRegion(mustBox(t, []float64{-1}, []float64{1}))
	initial := []geometry.Box{mustBox(t, []float64{0}, []float64{4})}

	gridOpts := []abstraction.GridOption{
		abstraction.WithPredicate("p1", func(cell geometry.Box) bool { return cell.Lo[0] >= 2 }),
	}

	rounds, err := Run(initial, d, disturbance, control, gridOpts, reachabilityAutomaton(t), reachabilityTest(), false, Config{
		MaxIterations:        4,
		MaybeVolumeThreshold: 0,
	})
	require.NoError(t, err)
	require.NotEmpty(t, rounds)

	for i := 1; i < len(rounds); i++ {
		assert.GreaterOrEqual(t, len(rounds[i].System.Labels()), len(rounds[i-1].System.Labels()))
	}
}

func TestSplitLongestAxisBisectsTheWiderDimension(t *testing.T) {
	b := mustBox(t, []float64{0, 0}, []float64{10, 1})
	left, right := splitLongestAxis(b)
	assert.InDelta(t, 5, left.Hi[0], 1e-9)
	assert.InDelta(t, 5, right.Lo[0], 1e-9)
	assert.Equal(t, 1.0, left.Hi[1])
	assert.Equal(t, 1.0, right.Hi[1])
}

func mustBox(t *testing.T, lo, hi []float64) geometry.Box {
	t.Helper()
	b, err := geometry.NewBox(lo, hi)
	require.NoError(t, err)
	return b
}
