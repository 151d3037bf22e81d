package game

import "github.com/veylan/lssverify/automaton"

// SinkSystemLabel is the placeholder system label for the __END__/__SAT__
// sink pairs, which are not anchored to any real system state.
const SinkSystemLabel = ""

// P1State is a player-1 product state (x, q): system state x, automaton
// state q. Moves[a] is the singleton set of successor P2 indices reached
// by taking action a (or the sole fallback move for sinks and dead ends).
type P1State struct {
	X        string
	Q        string
	Priority int
	Moves    [][]int // indices into Game.P2
}

// P2State is a player-2 product state ((x, a), q): system state x with
// chosen action a, automaton state q. Moves[σ] is the deduplicated set of
// successor P1 indices reached under support σ.
type P2State struct {
	X        string
	A        int
	Q        string
	Priority int
	Moves    [][]int // indices into Game.P1
}

type p1Key struct {
	x, q string
}

type p2Key struct {
	x string
	a int
	q string
}

// Game is the flat arena of P1/P2 states produced by Build, accessed by
// index into P1 and P2; Initial lists the P1 indices that are valid
// starting points for a trace.
type Game struct {
	P1      []P1State
	P2      []P2State
	Initial []int // P1 indices

	EndP1Index int
	EndP2Index int
	SatP1Index int // -1 if not constructed
	SatP2Index int // -1 if not constructed

	uniqueP1 map[p1Key]int
	uniqueP2 map[p2Key]int
}

func newGame() *Game {
	return &Game{
		uniqueP1:   make(map[p1Key]int),
		uniqueP2:   make(map[p2Key]int),
		SatP1Index: -1,
		SatP2Index: -1,
	}
}

// takeP1 returns the canonical index for (x, q), creating it if absent, and
// reports whether it was newly created. Callers always go through take(·)
// so two states with equal (x, q) are always the same index.
func (g *Game) takeP1(x, q string) (int, bool) {
	k := p1Key{x, q}
	if idx, ok := g.uniqueP1[k]; ok {
		return idx, false
	}
	idx := len(g.P1)
	g.P1 = append(g.P1, P1State{X: x, Q: q})
	g.uniqueP1[k] = idx
	return idx, true
}

func (g *Game) takeP2(x string, a int, q string) (int, bool) {
	k := p2Key{x, a, q}
	if idx, ok := g.uniqueP2[k]; ok {
		return idx, false
	}
	idx := len(g.P2)
	g.P2 = append(g.P2, P2State{X: x, A: a, Q: q})
	g.uniqueP2[k] = idx
	return idx, true
}

// priorityOf maps an automaton state to its parity-3 priority: F states
// get 0, E states get 1, all others get 2.
func priorityOf(a *automaton.Automaton, q string) int {
	return a.Priority(q)
}
