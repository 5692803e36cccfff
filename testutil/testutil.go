package testutil

import (
	"math/rand/v2"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniformLocked(lo, hi)
}

func (r *RNG) uniformLocked(lo, hi float64) float64 {
	return lo + r.rand.Float64()*(hi-lo)
}

// LineDataset returns inliers points within noise of l, spread over
// [-extent, extent] along the line, followed by outliers points drawn
// uniformly from the square [-extent, extent]^2.
//
// The first inliers indices are the planted inliers.
func (r *RNG) LineDataset(l Line, inliers, outliers int, noise, extent float64) []Point2 {
	r.mu.Lock()
	defer r.mu.Unlock()

	foot := Point2{X: -l.A * l.C, Y: -l.B * l.C}
	dir := Point2{X: -l.B, Y: l.A}

	points := make([]Point2, 0, inliers+outliers)
	for range inliers {
		t := r.uniformLocked(-extent, extent)
		e := r.uniformLocked(-noise, noise)
		points = append(points, Point2{
			X: foot.X + t*dir.X + e*l.A,
			Y: foot.Y + t*dir.Y + e*l.B,
		})
	}
	for range outliers {
		points = append(points, Point2{
			X: r.uniformLocked(-extent, extent),
			Y: r.uniformLocked(-extent, extent),
		})
	}
	return points
}

// PlaneDataset returns inliers points within noise of p, spread over a
// [-extent, extent]^2 patch of the plane, followed by outliers points drawn
// uniformly from the cube [-extent, extent]^3.
//
// The first inliers indices are the planted inliers.
func (r *RNG) PlaneDataset(p Plane, inliers, outliers int, noise, extent float64) []Point3 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := p.Normal()
	u, v := p.Basis()
	origin := n.Scale(-p.D)

	points := make([]Point3, 0, inliers+outliers)
	for range inliers {
		s := r.uniformLocked(-extent, extent)
		t := r.uniformLocked(-extent, extent)
		e := r.uniformLocked(-noise, noise)
		points = append(points, origin.Add(u.Scale(s)).Add(v.Scale(t)).Add(n.Scale(e)))
	}
	for range outliers {
		points = append(points, Point3{
			X: r.uniformLocked(-extent, extent),
			Y: r.uniformLocked(-extent, extent),
			Z: r.uniformLocked(-extent, extent),
		})
	}
	return points
}
