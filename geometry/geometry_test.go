package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(t *testing.T, lo, hi []float64) Box {
	t.Helper()
	b, err := NewBox(lo, hi)
	require.NoError(t, err)
	return b
}

func TestNewBoxRejectsDegenerateAndMismatchedDims(t *testing.T) {
	_, err := NewBox(Vec{0, 0}, Vec{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewBox(Vec{1, 0}, Vec{0, 1})
	assert.ErrorIs(t, err, ErrDegenerateBox)
}

func TestBoxContainsAndVolume(t *testing.T) {
	b := box(t, []float64{0, 0}, []float64{2, 3})
	assert.Equal(t, 6.0, b.Volume())
	assert.True(t, b.Contains(Vec{1, 1}))
	assert.True(t, b.Contains(Vec{0, 0}))
	assert.False(t, b.Contains(Vec{2.1, 1}))
}

func TestBoxIntersect(t *testing.T) {
	a := box(t, []float64{0, 0}, []float64{2, 2})
	b := box(t, []float64{1, 1}, []float64{3, 3})
	ib, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, Vec{1, 1}, ib.Lo)
	assert.Equal(t, Vec{2, 2}, ib.Hi)

	c := box(t, []float64{5, 5}, []float64{6, 6})
	_, ok = a.Intersect(c)
	assert.False(t, ok)
}

func TestBoxErodeRoundTripsWithMinkowskiSum(t *testing.T) {
	target := box(t, []float64{0, 0}, []float64{10, 10})
	disturbance := box(t, []float64{-1, -1}, []float64{1, 1})

	eroded, ok := target.Erode(disturbance)
	require.True(t, ok)
	assert.Equal(t, Vec{1, 1}, eroded.Lo)
	assert.Equal(t, Vec{9, 9}, eroded.Hi)

	// Any point in eroded, plus any disturbance, lands back in target.
	for _, v := range eroded.Vertices() {
		for _, w := range disturbance.Vertices() {
			assert.True(t, target.Contains(v.Add(w)))
		}
	}
}

func TestBoxVerticesCount(t *testing.T) {
	b := box(t, []float64{0, 0, 0}, []float64{1, 1, 1})
	assert.Len(t, b.Vertices(), 8)
}

func TestBoundingBoxOfVertices(t *testing.T) {
	pts := []Vec{{0, 5}, {3, -1}, {1, 2}}
	bb, err := BoundingBox(pts)
	require.NoError(t, err)
	assert.Equal(t, Vec{0, -1}, bb.Lo)
	assert.Equal(t, Vec{3, 5}, bb.Hi)
}

func TestRegionRemoveAndCovers(t *testing.T) {
	whole := NewRegion(box(t, []float64{0, 0}, []float64{10, 10}))
	hole := NewRegion(box(t, []float64{4, 4}, []float64{6, 6}))

	punched := whole.Remove(hole)
	assert.InDelta(t, 96, punched.Volume(), 1e-9)
	assert.False(t, punched.Covers(hole))
	assert.True(t, whole.Covers(hole))
	assert.True(t, whole.Covers(punched))
}

func TestRegionVolumeOfOverlappingBoxesCountsUnionOnce(t *testing.T) {
	a := box(t, []float64{0, 0}, []float64{2, 2})
	b := box(t, []float64{1, 1}, []float64{3, 3})
	r := NewRegion(a, b)
	// |a| + |b| - |a ∩ b| = 4 + 4 - 1 = 7
	assert.InDelta(t, 7, r.Volume(), 1e-9)
}

func TestRegionSampleStaysInsideRegion(t *testing.T) {
	r := NewRegion(
		box(t, []float64{0, 0}, []float64{1, 1}),
		box(t, []float64{5, 5}, []float64{6, 6}),
	)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		p, err := r.Sample(rng)
		require.NoError(t, err)
		assert.True(t, r.containsPoint(p))
	}

	_, err := NewRegion().Sample(rng)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestMatApplyIdentity(t *testing.T) {
	id := Identity(2)
	v := Vec{3, 4}
	assert.Equal(t, v, id.Apply(v))
}

func TestMatInverseOfDiagonal(t *testing.T) {
	m, err := NewMat(2, 2, []float64{2, 0, 0, 4})
	require.NoError(t, err)
	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, inv.At(0, 0), 1e-9)
	assert.InDelta(t, 0.25, inv.At(1, 1), 1e-9)
}

func TestMatInverseSingularErrors(t *testing.T) {
	m, err := NewMat(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	_, err = m.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}

// identityDynamics builds n-dimensional identity dynamics: x_{t+1} = x_t + u_t + w_t.
func identityDynamics(t *testing.T, n int) Dynamics {
	t.Helper()
	d, err := NewDynamics(Identity(n), Identity(n))
	require.NoError(t, err)
	return d
}

// doubleIntegrator builds double-integrator dynamics: A = [[1,1],[0,1]], B = [[0],[1]].
func doubleIntegrator(t *testing.T) Dynamics {
	t.Helper()
	a, err := NewMat(2, 2, []float64{1, 1, 0, 1})
	require.NoError(t, err)
	b, err := NewMat(2, 1, []float64{0, 1})
	require.NoError(t, err)
	d, err := NewDynamics(a, b)
	require.NoError(t, err)
	return d
}

func TestStepMatchesPointDynamics(t *testing.T) {
	d := doubleIntegrator(t)
	x := Vec{1, 2}
	u := Vec{0.5}
	w := Vec{0, 0}
	got := d.Step(x, u, w)
	// x1' = x1 + x2 = 3, x2' = x2 + 0.5*1 = 2.5
	assert.InDeltaSlice(t, []float64{3, 2.5}, []float64(got), 1e-9)
}

func TestPostIsExactForIdentityDynamics(t *testing.T) {
	d := identityDynamics(t, 1)
	src := NewRegion(box(t, []float64{0}, []float64{1}))
	ctrl := NewRegion(box(t, []float64{-1}, []float64{1}))
	disturbance := box(t, []float64{0}, []float64{0})

	post := Post(src, ctrl, d, disturbance)
	// x+u ranges over [0-1, 1+1] = [-1, 2]
	assert.InDelta(t, 3, post.Volume(), 1e-9)
}

func TestPreRIsExactForIdentityDynamics(t *testing.T) {
	d := identityDynamics(t, 1)
	x := NewRegion(box(t, []float64{-10}, []float64{10}))
	u := NewRegion(box(t, []float64{-1}, []float64{1}))
	target := NewRegion(box(t, []float64{0}, []float64{5}))
	disturbance := box(t, []float64{-0.5}, []float64{0.5})

	pre, err := PreR(x, u, target, d, disturbance)
	require.NoError(t, err)

	// Robustly: for every w in [-0.5,0.5], some u in [-1,1] drives x+u+w into [0,5].
	// Verify every sampled point of pre satisfies this.
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		xs, err := pre.Sample(rng)
		require.NoError(t, err)
		for _, w := range disturbance.Vertices() {
			ok := false
			for _, uv := range u.Vertices() {
				next := d.Step(xs, uv, w)
				if target.containsPoint(next) {
					ok = true
					break
				}
			}
			assert.True(t, ok, "x=%v w=%v should have a robust control", xs, w)
		}
	}
}

func TestPreRDoubleIntegrator(t *testing.T) {
	d := doubleIntegrator(t)
	x := NewRegion(box(t, []float64{-10, -10}, []float64{10, 10}))
	u := NewRegion(box(t, []float64{-1}, []float64{1}))
	target := NewRegion(box(t, []float64{-1, -1}, []float64{1, 1}))
	disturbance := box(t, []float64{0, 0}, []float64{0, 0})

	pre, err := PreR(x, u, target, d, disturbance)
	require.NoError(t, err)
	assert.False(t, pre.Empty())
}

func TestPreIsAtLeastAsPermissiveAsPreR(t *testing.T) {
	d := identityDynamics(t, 1)
	x := NewRegion(box(t, []float64{-10}, []float64{10}))
	u := NewRegion(box(t, []float64{-1}, []float64{1}))
	target := NewRegion(box(t, []float64{0}, []float64{5}))
	disturbance := box(t, []float64{-0.5}, []float64{0.5})

	robust, err := PreR(x, u, target, d, disturbance)
	require.NoError(t, err)
	plain, err := Pre(x, u, target, d, disturbance)
	require.NoError(t, err)

	assert.True(t, plain.Covers(robust))
}

func TestAttrRReachesFixedPointAndStaysWithinX(t *testing.T) {
	d := identityDynamics(t, 1)
	x := NewRegion(box(t, []float64{-5}, []float64{5}))
	u := NewRegion(box(t, []float64{-1}, []float64{1}))
	target := NewRegion(box(t, []float64{-0.5}, []float64{0.5}))
	disturbance := box(t, []float64{0}, []float64{0})

	attr, err := AttrR(x, u, target, d, disturbance)
	require.NoError(t, err)
	require.False(t, attr.Empty())
	assert.True(t, x.Covers(attr))
	assert.True(t, attr.Covers(target))
}

func TestRegionsEqualByVolumeIgnoresBoxDecomposition(t *testing.T) {
	whole := NewRegion(box(t, []float64{0}, []float64{2}))
	split := NewRegion(box(t, []float64{0}, []float64{1}), box(t, []float64{1}, []float64{2}))
	assert.True(t, regionsEqualByVolume(whole, split))
}
