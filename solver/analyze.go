package solver

import (
	"fmt"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/game"
)

// Result is the per-system-state analysis record: the partition of
// reachable automaton states into player-1-always-wins, player-1-never-
// wins and only-cooperative, plus the automaton successor reached by
// taking any action from (x, q).
type Result struct {
	Init  string
	Yes   map[string]struct{}
	No    map[string]struct{}
	Maybe map[string]struct{}
	Next  map[string]string
}

func newResult(init string) *Result {
	return &Result{
		Init:  init,
		Yes:   make(map[string]struct{}),
		No:    make(map[string]struct{}),
		Maybe: make(map[string]struct{}),
		Next:  make(map[string]string),
	}
}

// Analyze runs both quantifications of Solve, asserts the adversarial
// region is contained in the cooperative one, and assembles one Result per
// system-state label. next[q] is computed directly from
// automaton.Successor rather than observed off the constructed game, so it
// is well-defined even if an automaton's per-action successors were to
// disagree within a single (x, q).
func Analyze(g *game.Game, a *automaton.Automaton, view abstraction.GameGraphView, test automaton.Test, coSafe bool) (map[string]*Result, error) {
	win := Solve(g, Adversarial)
	winCoop := Solve(g, Cooperative)
	if !win.SubsetEq(winCoop) {
		return nil, ErrContradiction
	}

	results := make(map[string]*Result)
	resultFor := func(x string) *Result {
		if r, ok := results[x]; ok {
			return r
		}
		r := newResult(a.Initial())
		results[x] = r
		return r
	}

	for i, st := range g.P1 {
		if st.X == game.SinkSystemLabel {
			continue
		}
		r := resultFor(st.X)
		switch {
		case win.Contains(i):
			r.Yes[st.Q] = struct{}{}
		case winCoop.Contains(i):
			r.Maybe[st.Q] = struct{}{}
		default:
			r.No[st.Q] = struct{}{}
		}

		preds := automaton.PredicateSet(view.PredicateLabelsOf(st.X))
		if qNext, ok := a.Successor(st.Q, test, preds); ok {
			r.Next[st.Q] = qNext
		}
	}

	if coSafe {
		for _, idx := range g.Initial {
			x := g.P1[idx].X
			r := resultFor(x)
			for _, q := range a.States() {
				if a.Priority(q) != 0 || q == automaton.SatLabel {
					continue
				}
				r.Yes[q] = struct{}{}
				r.Next[q] = q
			}
		}
	}

	for x, r := range results {
		for q := range r.Yes {
			if _, dup := r.No[q]; dup {
				return nil, fmt.Errorf("analyze %q: %q classified both yes and no: %w", x, q, ErrContradiction)
			}
		}
	}
	return results, nil
}
