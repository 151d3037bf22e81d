package geometry

import (
	"fmt"
	"math/rand"
)

// Box is an axis-aligned hyper-rectangle {x : Lo[i] <= x[i] <= Hi[i]}.
type Box struct {
	Lo, Hi Vec
}

// NewBox validates and constructs a Box.
func NewBox(lo, hi Vec) (Box, error) {
	if len(lo) != len(hi) {
		return Box{}, fmt.Errorf("NewBox: %w", ErrDimensionMismatch)
	}
	for i := range lo {
		if lo[i] > hi[i] {
			return Box{}, fmt.Errorf("axis %d: lo=%g hi=%g: %w", i, lo[i], hi[i], ErrDegenerateBox)
		}
	}
	return Box{Lo: lo.Clone(), Hi: hi.Clone()}, nil
}

// Dim returns the box's ambient dimension.
func (b Box) Dim() int { return len(b.Lo) }

// Empty reports whether the box has zero volume on some axis.
func (b Box) Empty() bool {
	for i := range b.Lo {
		if b.Lo[i] >= b.Hi[i] {
			return true
		}
	}
	return false
}

// Volume returns the box's Lebesgue measure.
func (b Box) Volume() float64 {
	vol := 1.0
	for i := range b.Lo {
		vol *= b.Hi[i] - b.Lo[i]
	}
	if vol < 0 {
		return 0
	}
	return vol
}

// Contains reports whether x lies within the closed box.
func (b Box) Contains(x Vec) bool {
	for i := range b.Lo {
		if x[i] < b.Lo[i] || x[i] > b.Hi[i] {
			return false
		}
	}
	return true
}

// Intersect returns the box intersection of b and other, and whether it
// is non-empty.
func (b Box) Intersect(other Box) (Box, bool) {
	n := b.Dim()
	lo := make(Vec, n)
	hi := make(Vec, n)
	for i := 0; i < n; i++ {
		lo[i] = max(b.Lo[i], other.Lo[i])
		hi[i] = min(b.Hi[i], other.Hi[i])
		if lo[i] > hi[i] {
			return Box{}, false
		}
	}
	return Box{Lo: lo, Hi: hi}, true
}

// MinkowskiSum returns {a + c : a ∈ b, c ∈ other}, itself a box since
// interval addition is per-axis.
func (b Box) MinkowskiSum(other Box) Box {
	n := b.Dim()
	lo := make(Vec, n)
	hi := make(Vec, n)
	for i := 0; i < n; i++ {
		lo[i] = b.Lo[i] + other.Lo[i]
		hi[i] = b.Hi[i] + other.Hi[i]
	}
	return Box{Lo: lo, Hi: hi}
}

// Erode returns {t : t + w ∈ b, ∀ w ∈ other} = b ⊖ other, the Minkowski
// difference. Used to turn "for all disturbances, land in T" into a
// plain target box.
func (b Box) Erode(other Box) (Box, bool) {
	n := b.Dim()
	lo := make(Vec, n)
	hi := make(Vec, n)
	for i := 0; i < n; i++ {
		lo[i] = b.Lo[i] - other.Lo[i]
		hi[i] = b.Hi[i] - other.Hi[i]
		if lo[i] > hi[i] {
			return Box{}, false
		}
	}
	return Box{Lo: lo, Hi: hi}, true
}

// Vertices returns all 2^n corners of the box.
func (b Box) Vertices() []Vec {
	n := b.Dim()
	count := 1 << n
	out := make([]Vec, count)
	for mask := 0; mask < count; mask++ {
		v := make(Vec, n)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				v[i] = b.Hi[i]
			} else {
				v[i] = b.Lo[i]
			}
		}
		out[mask] = v
	}
	return out
}

// BoundingBox returns the tightest Box enclosing a set of points.
func BoundingBox(points []Vec) (Box, error) {
	if len(points) == 0 {
		return Box{}, ErrEmptyRegion
	}
	n := len(points[0])
	lo := make(Vec, n)
	hi := make(Vec, n)
	copy(lo, points[0])
	copy(hi, points[0])
	for _, p := range points[1:] {
		for i := 0; i < n; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return Box{Lo: lo, Hi: hi}, nil
}

// Sample draws a point uniformly at random from within b using rng.
func (b Box) Sample(rng *rand.Rand) Vec {
	out := make(Vec, b.Dim())
	for i := range out {
		out[i] = b.Lo[i] + rng.Float64()*(b.Hi[i]-b.Lo[i])
	}
	return out
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
