package automaton

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Reserved automaton-state labels. The game constructor (package game)
// mints sinks under these names; a user-supplied automaton must not
// declare a state with either label.
const (
	EndLabel = "__END__"
	SatLabel = "__SAT__"
)

// PredicateSet is the set of predicate labels satisfied at some point of
// evaluation (e.g. every predicate label a system state's polytope implies).
type PredicateSet map[string]struct{}

// Contains reports whether p is a member of the set.
func (s PredicateSet) Contains(p string) bool {
	_, ok := s[p]
	return ok
}

// Test decides whether a transition label accepts a predicate set. The
// automaton never interprets labels itself; test is the caller's closure
// over the propositional alphabet.
type Test func(label string, preds PredicateSet) bool

// state holds one automaton state's ordered transitions and optional default.
type state struct {
	label   string
	trans   *linkedhashmap.Map // label (string) -> target (string), insertion order preserved
	deflt   string
	hasDflt bool
}

// Automaton is a deterministic one-pair Streett automaton: a finite set of
// states with ordered labelled transitions plus acceptance pair (E, F).
// Built once via NewBuilder and immutable afterward.
type Automaton struct {
	states   map[string]*state
	order    []string // declaration order, for Stringify
	init     string
	e        map[string]struct{}
	f        map[string]struct{}
}

// Builder accumulates states and transitions for a new Automaton.
type Builder struct {
	a       *Automaton
	e, f    map[string]struct{}
	haveE   bool
	haveF   bool
}

// NewBuilder starts construction of a new automaton.
func NewBuilder() *Builder {
	return &Builder{
		a: &Automaton{
			states: make(map[string]*state),
		},
		e: make(map[string]struct{}),
		f: make(map[string]struct{}),
	}
}

// ensureState creates the state record for label if it doesn't exist yet,
// preserving first-seen declaration order.
func (b *Builder) ensureState(label string) *state {
	if s, ok := b.a.states[label]; ok {
		return s
	}
	s := &state{label: label, trans: linkedhashmap.New()}
	b.a.states[label] = s
	b.a.order = append(b.a.order, label)
	return s
}

// AddTransition declares ORIGIN -LABEL-> TARGET. An empty label declares
// the default edge for ORIGIN instead of a labelled one. Returns
// ErrDuplicateLabel / ErrDuplicateDefault on repeat declarations.
func (b *Builder) AddTransition(origin, label, target string) error {
	s := b.ensureState(origin)
	b.ensureState(target)
	if label == "" {
		if s.hasDflt {
			return fmt.Errorf("state %q: %w", origin, ErrDuplicateDefault)
		}
		s.deflt = target
		s.hasDflt = true
		return nil
	}
	if _, exists := s.trans.Get(label); exists {
		return fmt.Errorf("state %q, label %q: %w", origin, label, ErrDuplicateLabel)
	}
	s.trans.Put(label, target)
	return nil
}

// SetInitial marks label as the automaton's initial state. It does not
// declare the state; Build rejects an initial label that no transition,
// E or F entry declares.
func (b *Builder) SetInitial(label string) {
	b.a.init = label
}

// AddToE marks label as a member of the Streett pair's E set.
func (b *Builder) AddToE(label string) {
	b.e[label] = struct{}{}
	b.ensureState(label)
}

// AddToF marks label as a member of the Streett pair's F set.
func (b *Builder) AddToF(label string) {
	b.f[label] = struct{}{}
	b.ensureState(label)
}

// Build finalizes the automaton, validating the initial state is declared
// and that no state uses a reserved label.
func (b *Builder) Build() (*Automaton, error) {
	if b.a.init == "" {
		return nil, ErrUnknownInitial
	}
	if _, ok := b.a.states[b.a.init]; !ok {
		return nil, fmt.Errorf("initial state %q: %w", b.a.init, ErrUnknownInitial)
	}
	for _, label := range b.a.order {
		if label == EndLabel || label == SatLabel {
			return nil, fmt.Errorf("state %q: %w", label, ErrReservedLabel)
		}
	}
	b.a.e = b.e
	b.a.f = b.f
	return b.a, nil
}

// Initial returns the automaton's initial state label.
func (a *Automaton) Initial() string { return a.init }

// States returns every declared state label, in declaration order.
func (a *Automaton) States() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// HasState reports whether label is a declared state.
func (a *Automaton) HasState(label string) bool {
	_, ok := a.states[label]
	return ok
}

// InE reports whether label is a member of the Streett pair's E set.
func (a *Automaton) InE(label string) bool {
	_, ok := a.e[label]
	return ok
}

// InF reports whether label is a member of the Streett pair's F set.
func (a *Automaton) InF(label string) bool {
	_, ok := a.f[label]
	return ok
}

// Priority returns the parity-3 priority of automaton state q: 0 if q is
// in the acceptance set F, else 1 if q is in E, else 2.
func (a *Automaton) Priority(q string) int {
	if a.InF(q) {
		return 0
	}
	if a.InE(q) {
		return 1
	}
	return 2
}

// Successor iterates q's declared transitions in declaration order,
// invoking test(label, preds) on each; the first accepting label's
// target wins. If none accept, the default target is returned if
// present. If q has no accepting label and no default, ok is false.
func (a *Automaton) Successor(q string, test Test, preds PredicateSet) (target string, ok bool) {
	s, present := a.states[q]
	if !present {
		return "", false
	}
	it := s.trans.Iterator()
	for it.Next() {
		label := it.Key().(string)
		if test(label, preds) {
			return it.Value().(string), true
		}
	}
	if s.hasDflt {
		return s.deflt, true
	}
	return "", false
}

// successorsOf returns the set of targets reachable from q via any single
// transition (labelled or default), used by the co-safe absorption check.
func (a *Automaton) successorsOf(q string) []string {
	s, ok := a.states[q]
	if !ok {
		return nil
	}
	out := make([]string, 0, s.trans.Size()+1)
	it := s.trans.Iterator()
	for it.Next() {
		out = append(out, it.Value().(string))
	}
	if s.hasDflt {
		out = append(out, s.deflt)
	}
	return out
}

// IsCoSafeCompatible reports whether every F-state is absorbing: it has
// no outgoing transition leaving F (every successor of an F-state is
// itself in F).
func (a *Automaton) IsCoSafeCompatible() bool {
	labels := make([]string, 0, len(a.f))
	for label := range a.f {
		labels = append(labels, label)
	}
	sort.Strings(labels) // deterministic iteration for callers diffing output
	for _, label := range labels {
		for _, succ := range a.successorsOf(label) {
			if !a.InF(succ) {
				return false
			}
		}
	}
	return true
}
