package sample

import (
	"sync"

	"gonum.org/v1/gonum/stat/combin"
)

// CountCombinations returns C(n, k) when it is at most limit.
// The second return value is false when the count exceeds limit or the
// arguments do not describe a valid combination.
func CountCombinations(n, k, limit int) (int, bool) {
	if k < 0 || n < k || limit <= 0 {
		return 0, false
	}

	// Magnitude check in floating point first; Binomial overflows on large n.
	if combin.GeneralizedBinomial(float64(n), float64(k)) > float64(limit)+0.5 {
		return 0, false
	}

	c := combin.Binomial(n, k)
	return c, c <= limit
}

// Combination writes the idx-th k-combination of [0, n) into dst, which must have length k.
func Combination(dst []int, idx, n, k int) []int {
	return combin.IndexToCombination(dst, idx, n, k)
}

// Plan yields the minimal samples for a run that enumerates every combination
// exactly once, in random order.
//
// The permutation of combination indices is drawn lazily by a sparse
// Fisher-Yates shuffle: position t is fixed on its first Draw, so memory and
// random draws grow with the trials actually run, not with C(n, k).
// Plan is safe for concurrent use.
type Plan struct {
	s       Sampler
	n, k    int
	count   int
	mu      sync.Mutex
	swaps   map[int]int
	order   []int
	drawBuf [1]int
}

// NewPlan prepares an enumeration of count combination indices shuffled with s.
// count must be the value returned by CountCombinations. The plan owns s.
func NewPlan(s Sampler, n, k, count int) *Plan {
	return &Plan{s: s, n: n, k: k, count: count, swaps: make(map[int]int)}
}

// Len returns the number of distinct samples.
func (p *Plan) Len() int {
	return p.count
}

// Draw writes the sample for trial t into dst.
func (p *Plan) Draw(dst []int, t int) {
	Combination(dst, p.index(t), p.n, p.k)
}

// index returns the combination index at position t of the permutation,
// extending the permutation up to t when needed.
func (p *Plan) index(t int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := len(p.order); i <= t; i++ {
		p.s.Sample(p.drawBuf[:], p.count-i)
		j := i + p.drawBuf[0]
		picked := p.at(j)
		p.swaps[j] = p.at(i)
		// Positions below i+1 are never read again.
		delete(p.swaps, i)
		p.order = append(p.order, picked)
	}
	return p.order[t]
}

func (p *Plan) at(i int) int {
	if v, ok := p.swaps[i]; ok {
		return v
	}
	return i
}
