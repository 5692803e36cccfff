package testutil

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// epsilon below which a direction, normal or singular value counts as zero.
const epsilon = 1e-9

// Point2 is a point in the plane.
type Point2 struct {
	X, Y float64
}

// Point3 is a point in space.
type Point3 struct {
	X, Y, Z float64
}

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns s * p.
func (p Point3) Scale(s float64) Point3 {
	return Point3{X: s * p.X, Y: s * p.Y, Z: s * p.Z}
}

// Dot returns the dot product.
func (p Point3) Dot(q Point3) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product p × q.
func (p Point3) Cross(q Point3) Point3 {
	return Point3{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Norm returns the Euclidean length.
func (p Point3) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Line is the 2D line A*x + B*y + C = 0 with A² + B² = 1.
type Line struct {
	A, B, C float64
}

// NewLine normalizes a*x + b*y + c = 0. ok is false when (a, b) is zero.
func NewLine(a, b, c float64) (Line, bool) {
	n := math.Hypot(a, b)
	if n < epsilon {
		return Line{}, false
	}
	return Line{A: a / n, B: b / n, C: c / n}, true
}

// LineThrough returns the line through p and q. ok is false when they coincide.
func LineThrough(p, q Point2) (Line, bool) {
	return NewLine(q.Y-p.Y, p.X-q.X, q.X*p.Y-p.X*q.Y)
}

// Residual is the perpendicular distance from p to the line.
func (l Line) Residual(p Point2) float64 {
	return math.Abs(l.A*p.X + l.B*p.Y + l.C)
}

// Equivalent reports whether l and o describe the same line within tol,
// regardless of orientation.
func (l Line) Equivalent(o Line, tol float64) bool {
	same := math.Abs(l.A-o.A) <= tol && math.Abs(l.B-o.B) <= tol && math.Abs(l.C-o.C) <= tol
	flip := math.Abs(l.A+o.A) <= tol && math.Abs(l.B+o.B) <= tol && math.Abs(l.C+o.C) <= tol
	return same || flip
}

func (l Line) String() string {
	return fmt.Sprintf("%.3fx%+.3fy%+.3f=0", l.A, l.B, l.C)
}

// LineEstimator fits 2D lines.
type LineEstimator struct{}

// MinSamples returns 2.
func (LineEstimator) MinSamples() int { return 2 }

// Estimate fits the line through two points, or the total least squares line
// through more. Coincident points yield no model.
func (LineEstimator) Estimate(sample []Point2) []Line {
	if len(sample) < 2 {
		panic(fmt.Sprintf("testutil: LineEstimator needs at least 2 points, got %d", len(sample)))
	}
	if len(sample) == 2 {
		l, ok := LineThrough(sample[0], sample[1])
		if !ok {
			return nil
		}
		return []Line{l}
	}

	xs := make([]float64, len(sample))
	ys := make([]float64, len(sample))
	for i, p := range sample {
		xs[i], ys[i] = p.X, p.Y
	}
	cx, cy := stat.Mean(xs, nil), stat.Mean(ys, nil)

	a := mat.NewDense(len(sample), 2, nil)
	for i := range sample {
		a.Set(i, 0, xs[i]-cx)
		a.Set(i, 1, ys[i]-cy)
	}

	normal, ok := smallestSingularVector(a, 1)
	if !ok {
		return nil
	}
	l, ok := NewLine(normal[0], normal[1], -(normal[0]*cx + normal[1]*cy))
	if !ok {
		return nil
	}
	return []Line{l}
}

// Plane is the 3D plane N·p + D = 0 with |N| = 1.
type Plane struct {
	NX, NY, NZ, D float64
}

// NewPlane normalizes n·p + d = 0. ok is false when n is zero.
func NewPlane(n Point3, d float64) (Plane, bool) {
	norm := n.Norm()
	if norm < epsilon {
		return Plane{}, false
	}
	return Plane{NX: n.X / norm, NY: n.Y / norm, NZ: n.Z / norm, D: d / norm}, true
}

// PlaneThrough returns the plane through three points. ok is false when they are collinear.
func PlaneThrough(a, b, c Point3) (Plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	return NewPlane(n, -n.Dot(a))
}

// Normal returns the unit normal.
func (p Plane) Normal() Point3 {
	return Point3{X: p.NX, Y: p.NY, Z: p.NZ}
}

// Basis returns two unit vectors spanning the plane.
func (p Plane) Basis() (Point3, Point3) {
	n := p.Normal()
	axis := Point3{X: 1}
	if math.Abs(n.X) > 0.9 {
		axis = Point3{Y: 1}
	}
	u := n.Cross(axis)
	u = u.Scale(1 / u.Norm())
	return u, n.Cross(u)
}

// Residual is the perpendicular distance from q to the plane.
func (p Plane) Residual(q Point3) float64 {
	return math.Abs(p.NX*q.X + p.NY*q.Y + p.NZ*q.Z + p.D)
}

// Equivalent reports whether p and o describe the same plane within tol,
// regardless of orientation.
func (p Plane) Equivalent(o Plane, tol float64) bool {
	same := math.Abs(p.NX-o.NX) <= tol && math.Abs(p.NY-o.NY) <= tol &&
		math.Abs(p.NZ-o.NZ) <= tol && math.Abs(p.D-o.D) <= tol
	flip := math.Abs(p.NX+o.NX) <= tol && math.Abs(p.NY+o.NY) <= tol &&
		math.Abs(p.NZ+o.NZ) <= tol && math.Abs(p.D+o.D) <= tol
	return same || flip
}

func (p Plane) String() string {
	return fmt.Sprintf("%.3fx%+.3fy%+.3fz%+.3f=0", p.NX, p.NY, p.NZ, p.D)
}

// PlaneEstimator fits 3D planes.
type PlaneEstimator struct{}

// MinSamples returns 3.
func (PlaneEstimator) MinSamples() int { return 3 }

// Estimate fits the plane through three points, or the total least squares
// plane through more. Collinear points yield no model.
func (PlaneEstimator) Estimate(sample []Point3) []Plane {
	if len(sample) < 3 {
		panic(fmt.Sprintf("testutil: PlaneEstimator needs at least 3 points, got %d", len(sample)))
	}
	if len(sample) == 3 {
		p, ok := PlaneThrough(sample[0], sample[1], sample[2])
		if !ok {
			return nil
		}
		return []Plane{p}
	}

	cols := [3][]float64{
		make([]float64, len(sample)),
		make([]float64, len(sample)),
		make([]float64, len(sample)),
	}
	for i, q := range sample {
		cols[0][i], cols[1][i], cols[2][i] = q.X, q.Y, q.Z
	}
	centroid := Point3{X: stat.Mean(cols[0], nil), Y: stat.Mean(cols[1], nil), Z: stat.Mean(cols[2], nil)}

	a := mat.NewDense(len(sample), 3, nil)
	for i := range sample {
		a.Set(i, 0, cols[0][i]-centroid.X)
		a.Set(i, 1, cols[1][i]-centroid.Y)
		a.Set(i, 2, cols[2][i]-centroid.Z)
	}

	normal, ok := smallestSingularVector(a, 2)
	if !ok {
		return nil
	}
	n := Point3{X: normal[0], Y: normal[1], Z: normal[2]}
	p, ok := NewPlane(n, -n.Dot(centroid))
	if !ok {
		return nil
	}
	return []Plane{p}
}

// smallestSingularVector returns the right singular vector of a with the
// smallest singular value. ok is false when the rank of a is below rank.
func smallestSingularVector(a *mat.Dense, rank int) ([]float64, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}

	values := svd.Values(nil)
	if len(values) <= rank-1 || values[rank-1] < epsilon {
		return nil, false
	}

	var v mat.Dense
	svd.VTo(&v)
	_, c := v.Dims()
	return mat.Col(nil, c-1, &v), true
}
