package geometry

// Post returns the reachable region after one step from state region src
// under control region ctrl and any disturbance in disturbance, for
// dynamics d: { A x + B u + w : x ∈ src, u ∈ ctrl, w ∈ disturbance }.
//
// Exact when src and ctrl are boxes and A, B are diagonal/permutation
// matrices; otherwise returns the tightest enclosing bounding box of the
// transformed vertex set (see doc.go for when this is an approximation).
func Post(src, ctrl Region, d Dynamics, disturbance Box) Region {
	var out Region
	for _, sBox := range src {
		for _, cBox := range ctrl {
			var pts []Vec
			for _, sv := range sBox.Vertices() {
				ax := d.A.Apply(sv)
				for _, cv := range cBox.Vertices() {
					pts = append(pts, ax.Add(d.B.Apply(cv)))
				}
			}
			bb, err := BoundingBox(pts)
			if err != nil {
				continue
			}
			bb.Lo = bb.Lo.Add(disturbance.Lo)
			bb.Hi = bb.Hi.Add(disturbance.Hi)
			out = append(out, bb)
		}
	}
	return out
}

// PreR is the robust predecessor (glossary): points in X from which, for
// every disturbance in the random polytope, some control in U drives the
// next state into T while staying in X.
//
// Computed as X ∩ A^-1( (T ⊖ disturbance) ⊖(-1) B(U) ), i.e. erode T by
// the disturbance box, translate by the (bounding-box of the) image of U
// under B, and pull back through A^-1; see doc.go for the approximation
// this makes when A or B is not diagonal.
func PreR(x, u, t Region, d Dynamics, disturbance Box) (Region, error) {
	aInv, err := d.A.Inverse()
	if err != nil {
		return nil, err
	}

	// Bounding box of B applied to every box in U (existential choice of u).
	var controlEffect []Vec
	for _, cBox := range u {
		for _, v := range cBox.Vertices() {
			controlEffect = append(controlEffect, d.B.Apply(v))
		}
	}
	var buBox Box
	if len(controlEffect) > 0 {
		bb, err := BoundingBox(controlEffect)
		if err != nil {
			return nil, err
		}
		buBox = bb
	}

	var out Region
	for _, tBox := range t {
		eroded, ok := tBox.Erode(disturbance)
		if !ok {
			continue
		}
		// Achievable Ax values: eroded target shifted back by the control effect.
		achievable := Box{
			Lo: subtract(eroded.Lo, buBox.Hi),
			Hi: subtract(eroded.Hi, buBox.Lo),
		}
		if achievable.Empty() {
			continue
		}
		preimage := pullBack(aInv, achievable)
		for _, xBox := range x {
			if ib, ok := preimage.Intersect(xBox); ok && !ib.Empty() {
				out = append(out, ib)
			}
		}
	}
	return out, nil
}

// pullBack returns the bounding box of aInv applied to every vertex of b,
// an outer approximation of aInv(b) (exact when aInv is diagonal/permutation).
func pullBack(aInv Mat, b Box) Box {
	var pts []Vec
	for _, v := range b.Vertices() {
		pts = append(pts, aInv.Apply(v))
	}
	bb, err := BoundingBox(pts)
	if err != nil {
		return Box{}
	}
	return bb
}

func subtract(a, b Vec) Vec {
	out := make(Vec, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Pre is the plain (non-robust) predecessor: points in X from which some
// control in U and some disturbance in the random polytope drive the next
// state into T. Unlike PreR, the disturbance is existential here, so Pre
// is computed via Minkowski sum rather than erosion.
func Pre(x, u, t Region, d Dynamics, disturbance Box) (Region, error) {
	aInv, err := d.A.Inverse()
	if err != nil {
		return nil, err
	}
	var controlEffect []Vec
	for _, cBox := range u {
		for _, v := range cBox.Vertices() {
			controlEffect = append(controlEffect, d.B.Apply(v))
		}
	}
	var buBox Box
	if len(controlEffect) > 0 {
		bb, err := BoundingBox(controlEffect)
		if err != nil {
			return nil, err
		}
		buBox = bb
	}

	var out Region
	for _, tBox := range t {
		achievable := Box{
			Lo: subtract(subtract(tBox.Lo, buBox.Hi), disturbance.Hi),
			Hi: subtract(subtract(tBox.Hi, buBox.Lo), disturbance.Lo),
		}
		if achievable.Empty() {
			continue
		}
		preimage := pullBack(aInv, achievable)
		for _, xBox := range x {
			if ib, ok := preimage.Intersect(xBox); ok && !ib.Empty() {
				out = append(out, ib)
			}
		}
	}
	return out, nil
}

// Attr is the forward attractor: the set of points in x reachable from src
// in finitely many post-steps while remaining within x, intersected with t.
// Computed as the least fixed point of X0 = src ∩ t, Xi+1 = Xi ∪ (Post(Xi, ctrl, ...) ∩ x ∩ t),
// mirroring the EF backward-reachability fixed point style used elsewhere
// in this corpus for CTL model checking.
func Attr(x, ctrl, src, t Region, d Dynamics, disturbance Box) Region {
	cur := src.Intersect(t)
	for i := 0; i < maxFixedPointIters; i++ {
		next := cur.Union(Post(cur, ctrl, d, disturbance).Intersect(x).Intersect(t))
		if regionsEqualByVolume(next, cur) {
			break
		}
		cur = next
	}
	return cur
}

// AttrR is the robust backward attractor: the least fixed point of
// X0 = t, Xi+1 = Xi ∪ PreR(x, ctrl, Xi, d, disturbance).
func AttrR(x, ctrl, t Region, d Dynamics, disturbance Box) (Region, error) {
	cur := t
	for i := 0; i < maxFixedPointIters; i++ {
		step, err := PreR(x, ctrl, cur, d, disturbance)
		if err != nil {
			return nil, err
		}
		next := cur.Union(step)
		if regionsEqualByVolume(next, cur) {
			break
		}
		cur = next
	}
	return cur, nil
}

const maxFixedPointIters = 64

// regionsEqualByVolume is a practical equality check for fixed-point
// termination: two regions with the same volume whose symmetric
// difference also has zero volume are treated as equal.
func regionsEqualByVolume(a, b Region) bool {
	diff1 := a.Remove(b).Volume()
	diff2 := b.Remove(a).Volume()
	const eps = 1e-9
	return diff1 < eps && diff2 < eps
}
