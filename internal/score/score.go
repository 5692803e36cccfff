// Package score classifies residuals against an inlier threshold.
package score

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// MinChunk is the smallest index range worth scoring on its own goroutine.
const MinChunk = 1024

// ResidualFunc returns the residual of the i-th point of a pool.
type ResidualFunc func(i int) float64

// Tally is the support of one candidate: the inlier count and the residual sum over inliers.
type Tally struct {
	Count int
	Sum   float64
}

// Count scores the points [0, n) sequentially.
func Count(n int, threshold float64, residual ResidualFunc) Tally {
	return countRange(0, n, threshold, residual)
}

// Parallel scores the points [0, n) split into up to chunks ranges.
// Partial tallies merge in range order, so the result does not depend on scheduling.
func Parallel(n int, threshold float64, chunks int, residual ResidualFunc) Tally {
	if chunks > n/MinChunk {
		chunks = n / MinChunk
	}
	if chunks <= 1 {
		return Count(n, threshold, residual)
	}

	partial := make([]Tally, chunks)
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	for c := range chunks {
		lo := c * size
		hi := min(lo+size, n)
		g.Go(func() error {
			partial[c] = countRange(lo, hi, threshold, residual)
			return nil
		})
	}
	_ = g.Wait()

	sums := make([]float64, chunks)
	total := Tally{}
	for c, p := range partial {
		total.Count += p.Count
		sums[c] = p.Sum
	}
	total.Sum = floats.Sum(sums)
	return total
}

// Collect returns the indices in [0, n) whose residual is within threshold,
// together with their residual sum.
func Collect(n int, threshold float64, residual ResidualFunc) ([]uint32, float64) {
	var idx []uint32
	var res []float64
	for i := range n {
		r := residual(i)
		if r <= threshold {
			idx = append(idx, uint32(i))
			res = append(res, r)
		}
	}
	return idx, floats.Sum(res)
}

func countRange(lo, hi int, threshold float64, residual ResidualFunc) Tally {
	var t Tally
	for i := lo; i < hi; i++ {
		// NaN never compares <= threshold, so it is an outlier.
		if r := residual(i); r <= threshold {
			t.Count++
			t.Sum += r
		}
	}
	return t
}
