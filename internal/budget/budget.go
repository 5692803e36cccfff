// Package budget bounds the number of consensus trials and their wall-clock time.
//
// A Budget is shared by every worker of one search. Workers claim trial
// numbers before running them; a claim fails once the hard ceiling, the
// adaptive bound, or the deadline has been reached.
//
// Overhead: one atomic load and CAS per claim.
package budget

import (
	"math"
	"sync/atomic"
	"time"
)

// Reason records why a budget stopped handing out trials.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonBound
	ReasonCeiling
	ReasonDeadline
	ReasonCanceled
)

func (r Reason) String() string {
	switch r {
	case ReasonBound:
		return "bound"
	case ReasonCeiling:
		return "ceiling"
	case ReasonDeadline:
		return "deadline"
	case ReasonCanceled:
		return "canceled"
	default:
		return "none"
	}
}

// Config configures a trial budget.
type Config struct {
	// MaxTrials is the hard ceiling. Must be positive.
	MaxTrials int

	// MaxDuration limits wall-clock time. 0 = unlimited.
	MaxDuration time.Duration
}

// Budget tracks claimed and completed trials.
type Budget struct {
	ceiling int64
	bound   atomic.Int64

	claimed   atomic.Int64
	completed atomic.Int64

	deadline time.Time
	started  time.Time

	exhausted atomic.Bool
	reason    atomic.Int32
}

// New creates a budget. The adaptive bound starts unbounded.
func New(cfg Config) *Budget {
	b := &Budget{
		ceiling: int64(cfg.MaxTrials),
		started: time.Now(),
	}
	b.bound.Store(math.MaxInt64)

	if cfg.MaxDuration > 0 {
		b.deadline = b.started.Add(cfg.MaxDuration)
	}

	return b
}

// Claim reserves the next trial number (0-based).
// It returns false once no further trial may start.
func (b *Budget) Claim() (int, bool) {
	for {
		if b.exhausted.Load() {
			return 0, false
		}

		t := b.claimed.Load()
		if t >= b.ceiling {
			b.markExhausted(ReasonCeiling)
			return 0, false
		}
		if t >= b.bound.Load() {
			b.markExhausted(ReasonBound)
			return 0, false
		}

		if b.claimed.CompareAndSwap(t, t+1) {
			return int(t), true
		}
	}
}

// Complete records that a claimed trial finished.
func (b *Budget) Complete() {
	b.completed.Add(1)
}

// Tighten lowers the adaptive bound to n if n is smaller than the current bound.
func (b *Budget) Tighten(n int64) {
	if n < 0 {
		n = 0
	}
	for {
		cur := b.bound.Load()
		if n >= cur {
			return
		}
		if b.bound.CompareAndSwap(cur, n) {
			return
		}
	}
}

// CheckDeadline reports whether time remains.
func (b *Budget) CheckDeadline() bool {
	if b.deadline.IsZero() {
		return true
	}
	if time.Now().After(b.deadline) {
		b.markExhausted(ReasonDeadline)
		return false
	}
	return true
}

// Cancel stops the budget with ReasonCanceled.
func (b *Budget) Cancel() {
	b.markExhausted(ReasonCanceled)
}

// Reason returns why the budget stopped, or ReasonNone while it is still open.
func (b *Budget) Reason() Reason {
	return Reason(b.reason.Load())
}

// Completed returns the number of finished trials.
func (b *Budget) Completed() int {
	return int(b.completed.Load())
}

// Bound returns the current adaptive bound, clamped to the ceiling.
func (b *Budget) Bound() int {
	bound := b.bound.Load()
	if bound > b.ceiling {
		bound = b.ceiling
	}
	return int(bound)
}

// Elapsed returns the time since the budget was created.
func (b *Budget) Elapsed() time.Duration {
	return time.Since(b.started)
}

func (b *Budget) markExhausted(reason Reason) {
	if b.exhausted.CompareAndSwap(false, true) {
		b.reason.Store(int32(reason))
	}
}
