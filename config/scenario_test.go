package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
automaton = "q0>p1>q1,q0>>q0,q1>>q1 | q0 | | q1"
objective = "reachability"
co_safe = false

[dynamics.a]
rows = 1
cols = 1
data = [1.0]

[dynamics.b]
rows = 1
cols = 1
data = [1.0]

[state]
lo = [-5]
hi = [5]

[[control]]
lo = [-1]
hi = [1]

[disturbance]
lo = [-0.05]
hi = [0.05]

[grid]
counts = [10]
control_splits = 2

[[grid.predicates]]
name = "p1"

[[grid.predicates.region]]
lo = [2]
hi = [5]

[refinement]
max_iterations = 3
maybe_volume_threshold = 0.01

[controller]
name = "PreRLayeredTransition"
from_state = "q0"
to_state = "q1"
`

func TestParseResolvesACompleteScenario(t *testing.T) {
	sc, err := Parse([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, 1, sc.Dynamics.A.Rows())
	assert.Equal(t, []int{10}, sc.GridCounts)
	assert.Len(t, sc.GridOptions, 2)
	assert.Equal(t, ObjectiveReachability, sc.Objective)
	assert.False(t, sc.CoSafe)
	assert.Equal(t, "q0", sc.Automaton.Initial())
	assert.Equal(t, 3, sc.Refinement.MaxIterations)
	assert.Equal(t, "PreRLayeredTransition", sc.Controller.Name)
	assert.Equal(t, "q1", sc.Controller.ToState)
}

func TestParseRejectsUnknownObjective(t *testing.T) {
	bad := strings.Replace(sampleScenario, `objective = "reachability"`, `objective = "bogus"`, 1)
	_, err := Parse([]byte(bad))
	require.Error(t, err)
}

func TestParseRejectsMissingControl(t *testing.T) {
	const missing = `
automaton = "q0>>q0 | q0 | | "

[dynamics.a]
rows = 1
cols = 1
data = [1.0]

[dynamics.b]
rows = 1
cols = 1
data = [1.0]

[state]
lo = [-5]
hi = [5]

[disturbance]
lo = [0]
hi = [0]

[grid]
counts = [1]

[controller]
name = "Random"
`
	_, err := Parse([]byte(missing))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestParseRejectsBadMatrixShape(t *testing.T) {
	const bad = `
automaton = "q0>>q0 | q0 | | "

[dynamics.a]
rows = 1
cols = 1
data = [1.0, 2.0]

[dynamics.b]
rows = 1
cols = 1
data = [1.0]

[state]
lo = [-5]
hi = [5]

[[control]]
lo = [-1]
hi = [1]

[disturbance]
lo = [0]
hi = [0]

[grid]
counts = [1]

[controller]
name = "Random"
`
	_, err := Parse([]byte(bad))
	require.ErrorIs(t, err, ErrBadMatrixShape)
}
