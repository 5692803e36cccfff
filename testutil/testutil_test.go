package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.LineDataset(Line{A: 0, B: 1, C: -1}, 5, 5, 0.1, 10)

	rng.Reset()
	v2 := rng.LineDataset(Line{A: 0, B: 1, C: -1}, 5, 5, 0.1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, uint64(4711), rng.Seed())
}

func TestUniform(t *testing.T) {
	rng := NewRNG(1)
	for range 100 {
		v := rng.Uniform(-2, 3)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 3.0)
		assert.Less(t, rng.IntN(7), 7)
	}
}

func TestLineDataset(t *testing.T) {
	rng := NewRNG(42)
	l, ok := NewLine(3, 4, -5)
	require.True(t, ok)

	pts := rng.LineDataset(l, 50, 10, 0.05, 10)
	require.Len(t, pts, 60)
	for _, p := range pts[:50] {
		assert.LessOrEqual(t, l.Residual(p), 0.05+1e-12)
	}
	for _, p := range pts[50:] {
		assert.LessOrEqual(t, math.Abs(p.X), 10.0)
		assert.LessOrEqual(t, math.Abs(p.Y), 10.0)
	}
}

func TestPlaneDataset(t *testing.T) {
	rng := NewRNG(42)
	p, ok := NewPlane(Point3{X: 1, Y: 2, Z: 2}, -3)
	require.True(t, ok)

	pts := rng.PlaneDataset(p, 40, 10, 0.02, 5)
	require.Len(t, pts, 50)
	for _, q := range pts[:40] {
		assert.LessOrEqual(t, p.Residual(q), 0.02+1e-9)
	}
}

func TestLineThrough(t *testing.T) {
	l, ok := LineThrough(Point2{X: 0, Y: 0}, Point2{X: 1, Y: 1})
	require.True(t, ok)

	assert.InDelta(t, 1.0, l.A*l.A+l.B*l.B, 1e-12)
	assert.InDelta(t, 0.0, l.Residual(Point2{X: 2, Y: 2}), 1e-12)
	assert.InDelta(t, math.Sqrt2*5, l.Residual(Point2{X: 5, Y: -5}), 1e-9)

	_, ok = LineThrough(Point2{X: 1, Y: 1}, Point2{X: 1, Y: 1})
	assert.False(t, ok)
}

func TestLineEquivalent(t *testing.T) {
	l, _ := NewLine(1, -1, 0)
	o, _ := NewLine(-1, 1, 0)
	assert.True(t, l.Equivalent(o, 1e-9))

	other, _ := NewLine(1, 1, 0)
	assert.False(t, l.Equivalent(other, 1e-3))
}

func TestLineEstimator(t *testing.T) {
	est := LineEstimator{}
	assert.Equal(t, 2, est.MinSamples())

	t.Run("minimal", func(t *testing.T) {
		models := est.Estimate([]Point2{{X: 0, Y: 1}, {X: 2, Y: 1}})
		require.Len(t, models, 1)
		want, _ := NewLine(0, 1, -1)
		assert.True(t, models[0].Equivalent(want, 1e-9))
	})

	t.Run("degenerate", func(t *testing.T) {
		assert.Empty(t, est.Estimate([]Point2{{X: 3, Y: 3}, {X: 3, Y: 3}}))
		assert.Empty(t, est.Estimate([]Point2{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}}))
	})

	t.Run("least squares", func(t *testing.T) {
		want, _ := NewLine(0.6, 0.8, -2)
		pts := NewRNG(7).LineDataset(want, 200, 0, 0.01, 10)

		models := est.Estimate(pts)
		require.Len(t, models, 1)
		assert.True(t, models[0].Equivalent(want, 0.01), "got %v", models[0])
	})

	t.Run("too few", func(t *testing.T) {
		assert.Panics(t, func() { est.Estimate([]Point2{{X: 1}}) })
	})
}

func TestPlaneThrough(t *testing.T) {
	p, ok := PlaneThrough(Point3{}, Point3{X: 1}, Point3{Y: 1})
	require.True(t, ok)
	assert.True(t, p.Equivalent(Plane{NZ: 1}, 1e-12))

	_, ok = PlaneThrough(Point3{}, Point3{X: 1}, Point3{X: 2})
	assert.False(t, ok)
}

func TestPlaneBasis(t *testing.T) {
	for _, n := range []Point3{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 2, Z: 3}} {
		p, ok := NewPlane(n, 1)
		require.True(t, ok)

		u, v := p.Basis()
		assert.InDelta(t, 1.0, u.Norm(), 1e-12)
		assert.InDelta(t, 1.0, v.Norm(), 1e-12)
		assert.InDelta(t, 0.0, u.Dot(v), 1e-12)
		assert.InDelta(t, 0.0, u.Dot(p.Normal()), 1e-12)
		assert.InDelta(t, 0.0, v.Dot(p.Normal()), 1e-12)
	}
}

func TestPlaneEstimator(t *testing.T) {
	est := PlaneEstimator{}
	assert.Equal(t, 3, est.MinSamples())

	collinear := []Point3{{}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}, {X: 3, Y: 3, Z: 3}}
	assert.Empty(t, est.Estimate(collinear[:3]))
	assert.Empty(t, est.Estimate(collinear))

	want, _ := NewPlane(Point3{X: 0.2, Y: -0.5, Z: 1}, 0.7)
	pts := NewRNG(3).PlaneDataset(want, 300, 0, 0.005, 4)

	models := est.Estimate(pts)
	require.Len(t, models, 1)
	assert.True(t, models[0].Equivalent(want, 0.01), "got %v", models[0])
}

func TestWrappers(t *testing.T) {
	pts := []Point2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}

	c := NewCounting[Point2, Line](LineEstimator{})
	s, l := c.SampleSizes()
	assert.Zero(t, s)
	assert.Zero(t, l)

	c.Estimate(pts[:2])
	c.Estimate(pts)
	assert.Equal(t, 2, c.Calls())
	s, l = c.SampleSizes()
	assert.Equal(t, 2, s)
	assert.Equal(t, 3, l)

	r := NewRecording[Point2, Line](LineEstimator{})
	r.Estimate(pts[:2])
	r.Estimate(pts)
	assert.Len(t, r.Models(), 1)
	assert.Len(t, r.Refits(), 1)

	d := Degenerate[Point2, Line]{K: 2}
	assert.Equal(t, 2, d.MinSamples())
	assert.Nil(t, d.Estimate(pts))

	f := Fixed[Point2, Line]{K: 2, Models: []Line{{A: 1}}}
	assert.Len(t, f.Estimate(nil), 1)
}
