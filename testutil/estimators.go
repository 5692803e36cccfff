package testutil

import (
	"math"
	"sync"
	"sync/atomic"
)

// Estimator mirrors sac.Estimator so that the wrappers below do not import sac.
type Estimator[D, M any] interface {
	MinSamples() int
	Estimate(sample []D) []M
}

// Degenerate is an estimator whose every sample is degenerate.
type Degenerate[D, M any] struct {
	K int
}

func (d Degenerate[D, M]) MinSamples() int { return d.K }

func (Degenerate[D, M]) Estimate([]D) []M { return nil }

// Counting wraps an estimator and counts its calls.
type Counting[D, M any] struct {
	Inner Estimator[D, M]

	calls     atomic.Int64
	minSample atomic.Int64
	maxSample atomic.Int64
}

// NewCounting wraps inner.
func NewCounting[D, M any](inner Estimator[D, M]) *Counting[D, M] {
	c := &Counting[D, M]{Inner: inner}
	c.minSample.Store(math.MaxInt64)
	return c
}

func (c *Counting[D, M]) MinSamples() int { return c.Inner.MinSamples() }

func (c *Counting[D, M]) Estimate(sample []D) []M {
	c.calls.Add(1)
	n := int64(len(sample))
	for {
		cur := c.minSample.Load()
		if n >= cur || c.minSample.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := c.maxSample.Load()
		if n <= cur || c.maxSample.CompareAndSwap(cur, n) {
			break
		}
	}
	return c.Inner.Estimate(sample)
}

// Calls returns the number of Estimate calls.
func (c *Counting[D, M]) Calls() int { return int(c.calls.Load()) }

// SampleSizes returns the smallest and largest sample passed to Estimate.
// Both are 0 before the first call.
func (c *Counting[D, M]) SampleSizes() (smallest, largest int) {
	if c.Calls() == 0 {
		return 0, 0
	}
	return int(c.minSample.Load()), int(c.maxSample.Load())
}

// Recording wraps an estimator and keeps every model it returns for samples of
// exactly MinSamples points.
type Recording[D, M any] struct {
	Inner Estimator[D, M]

	mu     sync.Mutex
	models []M
	refits []M
}

// NewRecording wraps inner.
func NewRecording[D, M any](inner Estimator[D, M]) *Recording[D, M] {
	return &Recording[D, M]{Inner: inner}
}

func (r *Recording[D, M]) MinSamples() int { return r.Inner.MinSamples() }

func (r *Recording[D, M]) Estimate(sample []D) []M {
	models := r.Inner.Estimate(sample)
	r.mu.Lock()
	if len(sample) == r.Inner.MinSamples() {
		r.models = append(r.models, models...)
	} else {
		r.refits = append(r.refits, models...)
	}
	r.mu.Unlock()
	return models
}

// Models returns the models estimated from minimal samples.
func (r *Recording[D, M]) Models() []M {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]M(nil), r.models...)
}

// Refits returns the models estimated from larger samples.
func (r *Recording[D, M]) Refits() []M {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]M(nil), r.refits...)
}

// Fixed is an estimator that ignores its sample and returns Models on every call.
type Fixed[D, M any] struct {
	K      int
	Models []M
}

func (f Fixed[D, M]) MinSamples() int { return f.K }

func (f Fixed[D, M]) Estimate([]D) []M { return f.Models }
