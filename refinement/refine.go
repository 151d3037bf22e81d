package refinement

import (
	"strconv"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/game"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/solver"
)

// Config bounds a refinement run.
type Config struct {
	// MaxIterations caps the number of build-solve-split rounds.
	MaxIterations int
	// MaybeVolumeThreshold stops the loop once the fraction of the bounded
	// state space classified "maybe" (for at least one automaton state)
	// falls at or below this value.
	MaybeVolumeThreshold float64
}

// Round is one build-solve pass of the refinement loop.
type Round struct {
	Iteration           int
	System              *abstraction.AbstractedLSS
	Game                *game.Game
	Results             map[string]*solver.Result
	MaybeVolumeFraction float64
}

// Run drives the abstraction-refinement loop: build, solve, and — unless
// the maybe-volume threshold is already met — split the cell carrying
// the most undecided volume along its longest axis, then repeat. It
// returns every round computed, in order; the last round is the final
// abstraction.
func Run(initialCells []geometry.Box, d geometry.Dynamics, disturbance geometry.Box, controlAll geometry.Region, gridOpts []abstraction.GridOption, a *automaton.Automaton, test automaton.Test, coSafe bool, cfg Config) ([]Round, error) {
	cells := append([]geometry.Box(nil), initialCells...)
	var rounds []Round

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		sys, err := abstraction.BuildFromCells(cells, d, disturbance, controlAll, gridOpts...)
		if err != nil {
			return rounds, err
		}
		g, err := game.Build(sys, a, test, coSafe)
		if err != nil {
			return rounds, err
		}
		results, err := solver.Analyze(g, a, sys, test, coSafe)
		if err != nil {
			return rounds, err
		}

		frac := maybeVolumeFraction(sys, results)
		rounds = append(rounds, Round{
			Iteration:           iter,
			System:              sys,
			Game:                g,
			Results:             results,
			MaybeVolumeFraction: frac,
		})

		if frac <= cfg.MaybeVolumeThreshold {
			break
		}

		nextCells, ok := splitHighestMaybeCell(sys, results, cells)
		if !ok {
			break
		}
		cells = nextCells
	}
	return rounds, nil
}

func maybeVolumeFraction(sys *abstraction.AbstractedLSS, results map[string]*solver.Result) float64 {
	var total, maybe float64
	for _, label := range sys.Labels() {
		st, _ := sys.State(label)
		if st.Outer {
			continue
		}
		vol := st.Polytope.Volume()
		total += vol
		if r, ok := results[label]; ok && len(r.Maybe) > 0 {
			maybe += vol
		}
	}
	if total <= 0 {
		return 0
	}
	return maybe / total
}

// SplitStep exposes one round of cell-splitting directly, for callers
// (such as an interactive REPL) that want to refine one step at a time
// instead of running the full Run loop. Returns ErrNoCandidateCell if no
// cell carries maybe volume.
func SplitStep(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, cells []geometry.Box) ([]geometry.Box, error) {
	next, ok := splitHighestMaybeCell(sys, results, cells)
	if !ok {
		return nil, ErrNoCandidateCell
	}
	return next, nil
}

// splitHighestMaybeCell finds the largest-volume cell still classified
// "maybe" for some automaton state and splits it in two along its longest
// axis, returning the updated cell list. ok is false when no candidate
// cell remains.
func splitHighestMaybeCell(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, cells []geometry.Box) ([]geometry.Box, bool) {
	bestIdx := -1
	bestVol := 0.0
	for _, label := range sys.Labels() {
		st, _ := sys.State(label)
		if st.Outer {
			continue
		}
		r, ok := results[label]
		if !ok || len(r.Maybe) == 0 {
			continue
		}
		idx, err := strconv.Atoi(label)
		if err != nil || idx < 0 || idx >= len(cells) {
			continue
		}
		vol := st.Polytope.Volume()
		if vol > bestVol {
			bestVol, bestIdx = vol, idx
		}
	}
	if bestIdx < 0 {
		return cells, false
	}

	a, b := splitLongestAxis(cells[bestIdx])
	next := make([]geometry.Box, 0, len(cells)+1)
	next = append(next, cells[:bestIdx]...)
	next = append(next, a, b)
	next = append(next, cells[bestIdx+1:]...)
	return next, true
}

func splitLongestAxis(b geometry.Box) (geometry.Box, geometry.Box) {
	axis := 0
	longest := b.Hi[0] - b.Lo[0]
	for i := 1; i < b.Dim(); i++ {
		width := b.Hi[i] - b.Lo[i]
		if width > longest {
			longest, axis = width, i
		}
	}
	mid := (b.Lo[axis] + b.Hi[axis]) / 2

	loHi := b.Hi.Clone()
	loHi[axis] = mid
	hiLo := b.Lo.Clone()
	hiLo[axis] = mid

	left, _ := geometry.NewBox(b.Lo, loHi)
	right, _ := geometry.NewBox(hiLo, b.Hi)
	return left, right
}
