package solver

import "github.com/veylan/lssverify/game"

// arena is the combined index space over a game.Game: P1 states occupy
// [0, len(P1)), P2 states occupy [len(P1), len(P1)+len(P2)). Every move,
// originally an index into the *other* type-specific arena, is translated
// into this combined space once at construction so the fixed point below
// never has to distinguish P1 from P2 indices except for the quantifier.
type arena struct {
	n        int
	isP1     []bool
	priority []int
	moves    [][][]int
	p1Base   int
	p2Base   int
}

func buildArena(g *game.Game) *arena {
	n := len(g.P1) + len(g.P2)
	a := &arena{
		n:        n,
		isP1:     make([]bool, n),
		priority: make([]int, n),
		moves:    make([][][]int, n),
		p1Base:   0,
		p2Base:   len(g.P1),
	}
	for i, st := range g.P1 {
		a.isP1[i] = true
		a.priority[i] = st.Priority
		moves := make([][]int, len(st.Moves))
		for mi, mv := range st.Moves {
			translated := make([]int, len(mv))
			for k, t := range mv {
				translated[k] = a.p2Base + t
			}
			moves[mi] = translated
		}
		a.moves[i] = moves
	}
	for i, st := range g.P2 {
		idx := a.p2Base + i
		a.isP1[idx] = false
		a.priority[idx] = st.Priority
		moves := make([][]int, len(st.Moves))
		for mi, mv := range st.Moves {
			translated := make([]int, len(mv))
			for k, t := range mv {
				translated[k] = a.p1Base + t
			}
			moves[mi] = translated
		}
		a.moves[idx] = moves
	}
	return a
}

func (a *arena) priorityClass(p int) Bitset {
	out := NewBitset(a.n)
	for i := 0; i < a.n; i++ {
		if a.priority[i] == p {
			out.Set(i)
		}
	}
	return out
}

func moveToBitset(n int, move []int) Bitset {
	b := NewBitset(n)
	for _, idx := range move {
		b.Set(idx)
	}
	return b
}
