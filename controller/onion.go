package controller

import (
	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/solver"
)

// maxOnionIters bounds the onion construction loop; the layer sequence is
// monotone over a finite polytopic description, so this is a safety
// backstop, not expected to bind in practice.
const maxOnionIters = 64

// Onion is the monotone sequence L0 ⊆ L1 ⊆ … of PreR layers around a
// target region, built per automaton transition q -> q'.
type Onion struct {
	Layers []geometry.Region
}

// TargetRegion returns R_{q->q'}: the union of non-outer states' polytopes
// whose recorded automaton successor under q equals qNext.
func TargetRegion(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, q, qNext string) geometry.Region {
	var out geometry.Region
	for _, label := range sys.Labels() {
		st, _ := sys.State(label)
		if st.Outer {
			continue
		}
		r, ok := results[label]
		if !ok {
			continue
		}
		if next, ok := r.Next[q]; ok && next == qNext {
			out = out.Union(st.Polytope)
		}
	}
	return out
}

// UnsafeRegion returns U_q: the union of non-outer states' polytopes
// classified "no" for automaton state q.
func UnsafeRegion(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, q string) geometry.Region {
	var out geometry.Region
	for _, label := range sys.Labels() {
		st, _ := sys.State(label)
		if st.Outer {
			continue
		}
		r, ok := results[label]
		if !ok {
			continue
		}
		if _, isNo := r.No[q]; isNo {
			out = out.Union(st.Polytope)
		}
	}
	return out
}

// BuildOnion constructs the layered onion for the automaton transition
// q -> qNext: L0 := R \ U, L_{i+1} := preR(X, U, Li) \ U, stopping once a
// new layer adds nothing (L_{i+1} ⊆ Li).
func BuildOnion(sys *abstraction.AbstractedLSS, results map[string]*solver.Result, q, qNext string) (Onion, error) {
	target := TargetRegion(sys, results, q, qNext)
	unsafe := UnsafeRegion(sys, results, q)
	bounded := sys.Bounded()

	l0 := target.Remove(unsafe)
	layers := []geometry.Region{l0}
	cur := l0
	for i := 0; i < maxOnionIters; i++ {
		next, err := geometry.PreR(bounded, sys.ControlAll, cur, sys.Dynamics, sys.Disturbance)
		if err != nil {
			return Onion{}, err
		}
		next = next.Remove(unsafe)
		if cur.Covers(next) {
			break
		}
		layers = append(layers, next)
		cur = next
	}
	return Onion{Layers: layers}, nil
}
