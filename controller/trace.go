package controller

import (
	"fmt"
	"math/rand"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/geometry"
)

// Step records one closed-loop transition (x0, S0, q0) -> (x1, S1, q1)
// together with the control and disturbance that produced it.
type Step struct {
	X0, U, W, X1   geometry.Vec
	S0, S1, Q0, Q1 string
}

// Trace drives a system through a controller's policy, closing the loop
// x1 = A x0 + B u + w step by step.
type Trace struct {
	sys        *abstraction.AbstractedLSS
	automaton  *automaton.Automaton
	test       automaton.Test
	ctrl       Controller
	coSafe     bool
	rng        *rand.Rand
	Steps      []Step
	x          geometry.Vec
	stateLabel string
	q          string
	done       bool
}

// NewTrace starts a trace at x0. If stateLabel is empty it is located by
// point-in-polytope; if given, it is checked for consistency with x0. If q
// is empty the automaton's initial state is used.
func NewTrace(sys *abstraction.AbstractedLSS, a *automaton.Automaton, test automaton.Test, ctrl Controller, coSafe bool, rng *rand.Rand, x0 geometry.Vec, stateLabel, q string) (*Trace, error) {
	if stateLabel == "" {
		label, ok := sys.Locate(x0)
		if !ok {
			return nil, fmt.Errorf("NewTrace: %w", ErrSuccessorOutsideSystem)
		}
		stateLabel = label
	} else {
		st, ok := sys.State(stateLabel)
		if !ok {
			return nil, fmt.Errorf("NewTrace(%q): %w", stateLabel, ErrUnknownState)
		}
		if !st.Outer && !st.Polytope.Contains(x0) {
			return nil, fmt.Errorf("NewTrace(%q): %w", stateLabel, ErrInconsistentState)
		}
	}
	if q == "" {
		q = a.Initial()
	}
	return &Trace{
		sys: sys, automaton: a, test: test, ctrl: ctrl, coSafe: coSafe, rng: rng,
		x: x0, stateLabel: stateLabel, q: q,
	}, nil
}

// Step advances the trace by one transition. The bool return is false for
// a termination signal — outer state, co-safe final state, or missing
// automaton successor — not an error. err is non-nil only for an
// invariant violation or a controller failure.
func (t *Trace) Step() (Step, bool, error) {
	if t.done {
		return Step{}, false, nil
	}

	st, ok := t.sys.State(t.stateLabel)
	if !ok {
		return Step{}, false, fmt.Errorf("Trace.Step(%q): %w", t.stateLabel, ErrUnknownState)
	}
	if st.Outer {
		t.done = true
		return Step{}, false, nil
	}
	if t.coSafe && t.automaton.InF(t.q) {
		t.done = true
		return Step{}, false, nil
	}

	preds := automaton.PredicateSet(t.sys.PredicateLabelsOf(t.stateLabel))
	qNext, ok := t.automaton.Successor(t.q, t.test, preds)
	if !ok {
		t.done = true
		return Step{}, false, nil
	}

	u, err := t.ctrl.Control(t.x, t.stateLabel, t.q)
	if err != nil {
		return Step{}, false, err
	}
	w := t.sys.Disturbance.Sample(t.rng)
	x1 := t.sys.Dynamics.Step(t.x, u, w)
	s1, ok := t.sys.Locate(x1)
	if !ok {
		return Step{}, false, fmt.Errorf("Trace.Step: x1=%v: %w", x1, ErrSuccessorOutsideSystem)
	}

	step := Step{X0: t.x, U: u, W: w, X1: x1, S0: t.stateLabel, S1: s1, Q0: t.q, Q1: qNext}
	t.Steps = append(t.Steps, step)
	t.x, t.stateLabel, t.q = x1, s1, qNext
	return step, true, nil
}

// StateLabel returns the system state the trace currently occupies.
func (t *Trace) StateLabel() string { return t.stateLabel }

// AutomatonState returns the automaton state the trace currently occupies.
func (t *Trace) AutomatonState() string { return t.q }

// StepFor applies Step up to n times, stopping early on any termination
// signal or error.
func (t *Trace) StepFor(n int) error {
	for i := 0; i < n; i++ {
		_, ok, err := t.Step()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}
