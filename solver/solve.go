package solver

import "github.com/veylan/lssverify/game"

// Quantifier selects how player 2's moves are quantified in the per-state
// satisfaction predicate below.
type Quantifier int

const (
	// Adversarial: P1 states need only one satisfying move; P2 states need
	// every move to satisfy the condition (player 2 plays against P1).
	Adversarial Quantifier = iota
	// Cooperative: either player needs only one satisfying move.
	Cooperative
)

// stateSatisfies reports whether idx satisfies cond under mode: a P1
// state (or any state under Cooperative) needs one satisfying move, an
// adversarial P2 state needs every move to satisfy it.
func stateSatisfies(a *arena, idx int, mode Quantifier, cond func(move []int) bool) bool {
	moves := a.moves[idx]
	if mode == Cooperative || a.isP1[idx] {
		for _, mv := range moves {
			if cond(mv) {
				return true
			}
		}
		return false
	}
	// Adversarial P2: every move must satisfy the condition.
	for _, mv := range moves {
		if !cond(mv) {
			return false
		}
	}
	return true
}

// pre1(S, X) = { s ∈ S : state-pred(s, C1(·, X)) }, C1(move, X) ≡ move ⊆ X.
func pre1(a *arena, s, x Bitset, mode Quantifier) Bitset {
	out := NewBitset(a.n)
	cond := func(move []int) bool { return moveToBitset(a.n, move).SubsetEq(x) }
	for _, idx := range s.Indices() {
		if stateSatisfies(a, idx, mode, cond) {
			out.Set(idx)
		}
	}
	return out
}

// pre2(S, X, Y), C2(move, X, Y) ≡ move ⊆ X ∧ move ∩ Y ≠ ∅.
func pre2(a *arena, s, x, y Bitset, mode Quantifier) Bitset {
	out := NewBitset(a.n)
	cond := func(move []int) bool {
		mb := moveToBitset(a.n, move)
		return mb.SubsetEq(x) && mb.IntersectsAny(y)
	}
	for _, idx := range s.Indices() {
		if stateSatisfies(a, idx, mode, cond) {
			out.Set(idx)
		}
	}
	return out
}

// pre3(S, Z, X, Y), C3(move, X, Y, Z) ≡ C1(move, Z) ∨ C2(move, X, Y).
func pre3(a *arena, s, z, x, y Bitset, mode Quantifier) Bitset {
	out := NewBitset(a.n)
	cond := func(move []int) bool {
		mb := moveToBitset(a.n, move)
		if mb.SubsetEq(z) {
			return true
		}
		return mb.SubsetEq(x) && mb.IntersectsAny(y)
	}
	for _, idx := range s.Indices() {
		if stateSatisfies(a, idx, mode, cond) {
			out.Set(idx)
		}
	}
	return out
}

// Solve runs the triply-nested GFP(X) ⊇ LFP(Y) ⊇ GFP(Z) fixed point under
// the given quantifier and returns the player-1 almost-sure winning region
// as a
// Bitset over the combined arena (P1 indices [0,len(P1)), P2 indices
// [len(P1), len(P1)+len(P2))).
func Solve(g *game.Game, mode Quantifier) Bitset {
	a := buildArena(g)
	s0 := a.priorityClass(0)
	s1 := a.priorityClass(1)
	s2 := a.priorityClass(2)

	x := Full(a.n)
	for {
		y := NewBitset(a.n)
		for {
			z := Full(a.n)
			for {
				zNext := pre1(a, s0, x, mode).
					Union(pre2(a, s1, x, y, mode)).
					Union(pre3(a, s2, z, x, y, mode))
				if zNext.Equal(z) {
					z = zNext
					break
				}
				z = zNext
			}
			yNext := z
			if yNext.Equal(y) {
				y = yNext
				break
			}
			y = yNext
		}
		xNext := y
		if xNext.Equal(x) {
			return xNext
		}
		x = xNext
	}
}
