package abstraction

import (
	"fmt"
	"sort"

	"github.com/veylan/lssverify/geometry"
)

// Support is one possible disturbance-induced outcome of taking an action:
// an ordered set of target system-state labels the next cell may land in.
type Support struct {
	Targets []string
}

// Action is a control choice available at an inner system state: an ordered
// list of supports plus the control sub-polytope that realises it.
type Action struct {
	Control  geometry.Region
	Supports []Support
}

// SystemState is one labelled cell of the abstraction. Outer states have no
// actions and represent state-space escape.
type SystemState struct {
	Label      string
	Polytope   geometry.Region
	Predicates map[string]struct{}
	Outer      bool
	Actions    []Action
}

// HasPredicate reports whether p is satisfied by every point of the state's
// polytope (the abstraction only stores labels certified robustly true).
func (s SystemState) HasPredicate(p string) bool {
	_, ok := s.Predicates[p]
	return ok
}

// AbstractedLSS is a finite partition of a linear stochastic system's state
// space, consumed by game construction through the GameGraphView interface
// and by the controller/trace layer directly.
type AbstractedLSS struct {
	Dynamics    geometry.Dynamics
	Disturbance geometry.Box
	ControlAll  geometry.Region
	states      map[string]*SystemState
	order       []string
}

// NewAbstractedLSS validates and assembles a system from its states. Every
// non-outer state must carry at least one action, every action at least one
// support, every support at least one target; all targets must name states
// already present in the set (forward references across a single Build are
// allowed since states is materialised before validation).
func NewAbstractedLSS(d geometry.Dynamics, disturbance geometry.Box, controlAll geometry.Region, states []SystemState) (*AbstractedLSS, error) {
	sys := &AbstractedLSS{
		Dynamics:    d,
		Disturbance: disturbance,
		ControlAll:  controlAll,
		states:      make(map[string]*SystemState, len(states)),
		order:       make([]string, 0, len(states)),
	}
	for i := range states {
		st := states[i]
		if _, exists := sys.states[st.Label]; exists {
			return nil, fmt.Errorf("NewAbstractedLSS(%q): %w", st.Label, ErrDuplicateLabel)
		}
		sys.states[st.Label] = &st
		sys.order = append(sys.order, st.Label)
	}
	for _, label := range sys.order {
		st := sys.states[label]
		if st.Outer {
			continue
		}
		if len(st.Actions) == 0 {
			return nil, fmt.Errorf("state %q: %w", label, ErrNoActions)
		}
		for ai, a := range st.Actions {
			if len(a.Supports) == 0 {
				return nil, fmt.Errorf("state %q action %d: %w", label, ai, ErrNoSupports)
			}
			for si, sup := range a.Supports {
				if len(sup.Targets) == 0 {
					return nil, fmt.Errorf("state %q action %d support %d: %w", label, ai, si, ErrNoTargets)
				}
				for _, target := range sup.Targets {
					if _, ok := sys.states[target]; !ok {
						return nil, fmt.Errorf("state %q action %d support %d target %q: %w", label, ai, si, target, ErrUnknownState)
					}
				}
			}
		}
	}
	return sys, nil
}

// State returns the state named by label.
func (s *AbstractedLSS) State(label string) (*SystemState, bool) {
	st, ok := s.states[label]
	return st, ok
}

// Labels returns every state label in construction order.
func (s *AbstractedLSS) Labels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Bounded returns the union of every non-outer state's polytope: the
// bounded region X that the controller and onion construction operate
// within.
func (s *AbstractedLSS) Bounded() geometry.Region {
	var out geometry.Region
	for _, label := range s.order {
		st := s.states[label]
		if st.Outer {
			continue
		}
		out = out.Union(st.Polytope)
	}
	return out
}

// Locate returns the label of the inner state whose polytope contains x. If
// x falls outside every inner cell, the first outer state's label is
// returned instead; ok is false only when the system has no outer state.
// Outer states are checked last since inner cells are the common case.
func (s *AbstractedLSS) Locate(x geometry.Vec) (string, bool) {
	var outerLabel string
	haveOuter := false
	for _, label := range s.order {
		st := s.states[label]
		if st.Outer {
			if !haveOuter {
				outerLabel, haveOuter = label, true
			}
			continue
		}
		if !st.Polytope.Contains(x) {
			continue
		}
		return label, true
	}
	if haveOuter {
		return outerLabel, true
	}
	return "", false
}

// --- GameGraphView ---

// GameGraphView is the interface the game constructor consumes: it never
// imports this package's concrete types directly.
type GameGraphView interface {
	StateLabels() []string
	PredicateLabelsOf(label string) map[string]struct{}
	ActionCountOf(label string) int
	SupportCountOf(label string, action int) int
	TargetLabelsOf(label string, action, support int) []string
}

// StateLabels implements GameGraphView.
func (s *AbstractedLSS) StateLabels() []string { return s.Labels() }

// PredicateLabelsOf implements GameGraphView.
func (s *AbstractedLSS) PredicateLabelsOf(label string) map[string]struct{} {
	st, ok := s.states[label]
	if !ok {
		return nil
	}
	return st.Predicates
}

// ActionCountOf implements GameGraphView.
func (s *AbstractedLSS) ActionCountOf(label string) int {
	st, ok := s.states[label]
	if !ok || st.Outer {
		return 0
	}
	return len(st.Actions)
}

// SupportCountOf implements GameGraphView.
func (s *AbstractedLSS) SupportCountOf(label string, action int) int {
	st, ok := s.states[label]
	if !ok || action < 0 || action >= len(st.Actions) {
		return 0
	}
	return len(st.Actions[action].Supports)
}

// TargetLabelsOf implements GameGraphView.
func (s *AbstractedLSS) TargetLabelsOf(label string, action, support int) []string {
	st, ok := s.states[label]
	if !ok || action < 0 || action >= len(st.Actions) {
		return nil
	}
	a := st.Actions[action]
	if support < 0 || support >= len(a.Supports) {
		return nil
	}
	out := make([]string, len(a.Supports[support].Targets))
	copy(out, a.Supports[support].Targets)
	sort.Strings(out)
	return out
}
