package game

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
)

type stateRef struct {
	isP1 bool
	idx  int
}

// Build constructs the product game from view and a by breadth-first
// exploration from the initial P1 states. test supplies the automaton's
// predicate test; coSafe selects the co-safe post-processing of accepting
// sinks.
func Build(view abstraction.GameGraphView, a *automaton.Automaton, test automaton.Test, coSafe bool) (*Game, error) {
	g := newGame()
	var queue []stateRef

	// Step 2: the dead-end pair, wired to loop back to each other.
	endP1, _ := g.takeP1(SinkSystemLabel, automaton.EndLabel)
	endP2, _ := g.takeP2(SinkSystemLabel, 0, automaton.EndLabel)
	g.EndP1Index, g.EndP2Index = endP1, endP2
	g.P1[endP1].Moves = [][]int{{endP2}}
	g.P2[endP2].Moves = [][]int{{endP1}}
	g.P1[endP1].Priority = 1
	g.P2[endP2].Priority = 1

	// Step 3: the co-safe SAT pair, same absorbing shape.
	useCoSafe := coSafe && a.IsCoSafeCompatible()
	if useCoSafe {
		satP1, _ := g.takeP1(SinkSystemLabel, automaton.SatLabel)
		satP2, _ := g.takeP2(SinkSystemLabel, 0, automaton.SatLabel)
		g.SatP1Index, g.SatP2Index = satP1, satP2
		g.P1[satP1].Moves = [][]int{{satP2}}
		g.P2[satP2].Moves = [][]int{{satP1}}
		g.P1[satP1].Priority = 0
		g.P2[satP2].Priority = 0
	}

	// Step 1: an initial P1(x, q0) for every system-state label.
	q0 := a.Initial()
	for _, x := range view.StateLabels() {
		idx, isNew := g.takeP1(x, q0)
		g.Initial = append(g.Initial, idx)
		if isNew {
			queue = append(queue, stateRef{isP1: true, idx: idx})
		}
	}

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		if ref.isP1 {
			if err := g.expandP1(ref.idx, view, a, test, useCoSafe, &queue); err != nil {
				return nil, err
			}
			continue
		}
		g.expandP2(ref.idx, view, &queue)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) expandP1(idx int, view abstraction.GameGraphView, a *automaton.Automaton, test automaton.Test, coSafe bool, queue *[]stateRef) error {
	st := &g.P1[idx]
	st.Priority = priorityOf(a, st.Q)

	preds := automaton.PredicateSet(view.PredicateLabelsOf(st.X))
	qNext, ok := a.Successor(st.Q, test, preds)
	if !ok {
		// No successor: leave moves empty; the fallback below wires it to
		// the END sink.
	} else if coSafe && a.InF(qNext) {
		p2idx, isNew := g.takeP2(st.X, 0, qNext)
		g.P2[p2idx].Priority = 0
		g.P2[p2idx].Moves = [][]int{{g.SatP1Index}}
		st.Moves = [][]int{{p2idx}}
		if isNew {
			// Do not enqueue its successors: the SAT sink pair is
			// already pre-wired.
			_ = isNew
		}
	} else {
		actionCount := view.ActionCountOf(st.X)
		st.Moves = make([][]int, 0, actionCount)
		for act := 0; act < actionCount; act++ {
			p2idx, isNew := g.takeP2(st.X, act, qNext)
			g.P2[p2idx].Priority = priorityOf(a, qNext)
			st.Moves = append(st.Moves, []int{p2idx})
			if isNew {
				*queue = append(*queue, stateRef{isP1: false, idx: p2idx})
			}
		}
	}

	if len(st.Moves) == 0 {
		fallback, isNew := g.takeP2(st.X, 0, "")
		g.P2[fallback].Priority = 1
		g.P2[fallback].Moves = [][]int{{g.EndP1Index}}
		st.Moves = [][]int{{fallback}}
		if isNew {
			// The fallback P2 state is absorbing by construction; nothing
			// further to enqueue.
			_ = isNew
		}
	}
	return nil
}

func (g *Game) expandP2(idx int, view abstraction.GameGraphView, queue *[]stateRef) {
	st := &g.P2[idx]
	supportCount := view.SupportCountOf(st.X, st.A)
	st.Moves = make([][]int, 0, supportCount)
	for sup := 0; sup < supportCount; sup++ {
		targets := view.TargetLabelsOf(st.X, st.A, sup)
		// Deduplicate into a single set-valued move via the same
		// ordered-set dedup the arena uses elsewhere, preserving
		// insertion order for deterministic move contents.
		unique := linkedhashset.New()
		for _, target := range targets {
			p1idx, isNew := g.takeP1(target, st.Q)
			if unique.Contains(p1idx) {
				continue
			}
			unique.Add(p1idx)
			if isNew {
				*queue = append(*queue, stateRef{isP1: true, idx: p1idx})
			}
		}
		if unique.Size() == 0 {
			continue
		}
		move := make([]int, 0, unique.Size())
		for _, v := range unique.Values() {
			move = append(move, v.(int))
		}
		st.Moves = append(st.Moves, move)
	}
}

// validate checks that every non-sink P1 state has at least one move, and
// that every initial state is present in the arena.
func (g *Game) validate() error {
	if len(g.Initial) == 0 {
		return ErrNoInitialStates
	}
	for _, idx := range g.Initial {
		if idx < 0 || idx >= len(g.P1) {
			return fmt.Errorf("initial index %d: %w", idx, ErrInitialStateMissing)
		}
	}
	for i := range g.P1 {
		if len(g.P1[i].Moves) == 0 {
			return fmt.Errorf("P1(%q,%q): %w", g.P1[i].X, g.P1[i].Q, ErrEmptyMoves)
		}
	}
	for i := range g.P2 {
		if len(g.P2[i].Moves) == 0 {
			return fmt.Errorf("P2(%q,%d,%q): %w", g.P2[i].X, g.P2[i].A, g.P2[i].Q, ErrEmptyMoves)
		}
	}
	return nil
}
