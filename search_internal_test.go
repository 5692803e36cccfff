package sac

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/sac/internal/budget"
)

func TestCandidateBeats(t *testing.T) {
	none := candidate[int]{}
	base := candidate[int]{support: 10, sum: 2, trial: 5, rank: 1, valid: true}

	assert.True(t, base.beats(&none))
	assert.False(t, none.beats(&base))
	assert.False(t, none.beats(&none))
	assert.False(t, base.beats(&base))

	for name, c := range map[string]candidate[int]{
		"more support":  {support: 11, sum: 100, trial: 9, valid: true},
		"lower sum":     {support: 10, sum: 1, trial: 9, valid: true},
		"earlier trial": {support: 10, sum: 2, trial: 4, rank: 3, valid: true},
		"earlier rank":  {support: 10, sum: 2, trial: 5, rank: 0, valid: true},
	} {
		assert.True(t, c.beats(&base), name)
		assert.False(t, base.beats(&c), name)
	}
}

func TestBestSlot(t *testing.T) {
	var b bestSlot[string]

	s, ok := b.offer(candidate[string]{model: "a", support: 3, valid: true})
	assert.True(t, ok)
	assert.Equal(t, 3, s)

	s, ok = b.offer(candidate[string]{model: "b", support: 2, valid: true})
	assert.False(t, ok)
	assert.Equal(t, 3, s)

	assert.Equal(t, "a", b.load().model)
}

func TestTrialBound(t *testing.T) {
	assert.Equal(t, int64(17), trialBound(50, 100, 0.99, 2, 1000))
	assert.Equal(t, int64(1000), trialBound(0, 100, 0.99, 2, 1000))
	assert.Equal(t, int64(0), trialBound(100, 100, 0.99, 2, 1000))
	assert.Equal(t, int64(1000), trialBound(5, 0, 0.99, 2, 1000))
	assert.Equal(t, int64(20), trialBound(1, 100, 0.99, 2, 20))
}

func TestStopReasonFromBudget(t *testing.T) {
	ctx := context.Background()
	winner := candidate[int]{support: 10, valid: true}

	assert.Equal(t, StopPerfect, stopReason(ctx, budget.ReasonBound, winner, 10, false))
	assert.Equal(t, StopConverged, stopReason(ctx, budget.ReasonBound, winner, 20, false))
	assert.Equal(t, StopExhausted, stopReason(ctx, budget.ReasonCeiling, winner, 20, true))
	assert.Equal(t, StopMaxTrials, stopReason(ctx, budget.ReasonCeiling, winner, 20, false))
	assert.Equal(t, StopDeadline, stopReason(ctx, budget.ReasonDeadline, winner, 20, false))
	assert.Equal(t, StopCanceled, stopReason(ctx, budget.ReasonCanceled, winner, 20, false))

	expired, cancel := context.WithDeadline(ctx, time.Unix(0, 0))
	defer cancel()
	assert.Equal(t, StopDeadline, stopReason(expired, budget.ReasonCanceled, winner, 20, false))
}

func TestRequiredTrials(t *testing.T) {
	assert.InDelta(t, math.Log(0.01)/math.Log(0.75), RequiredTrials(0.5, 0.99, 2), 1e-12)
	assert.InDelta(t, 16.0, math.Floor(RequiredTrials(0.5, 0.99, 2)), 0)
	assert.Zero(t, RequiredTrials(1, 0.99, 2))
	assert.True(t, math.IsInf(RequiredTrials(0, 0.99, 2), 1))
	assert.True(t, math.IsInf(RequiredTrials(math.NaN(), 0.99, 2), 1))
	assert.True(t, math.IsInf(RequiredTrials(1e-200, 0.99, 8), 1))

	// More confidence or a larger sample needs more trials.
	assert.Greater(t, RequiredTrials(0.5, 0.999, 2), RequiredTrials(0.5, 0.99, 2))
	assert.Greater(t, RequiredTrials(0.5, 0.99, 4), RequiredTrials(0.5, 0.99, 2))
}
