package sac_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sac"
	"github.com/hupe1980/sac/testutil"
)

// crossData returns the axis y = 0 on x in [-10, 10] followed by the axis
// x = 0 on y in [-10, 10] without the origin, which is index 10.
func crossData() []point {
	var data []point
	for x := -10; x <= 10; x++ {
		data = append(data, point{X: float64(x)})
	}
	for y := -10; y <= 10; y++ {
		if y != 0 {
			data = append(data, point{Y: float64(y)})
		}
	}
	return data
}

func TestFindModelsOverlap(t *testing.T) {
	data := crossData()
	eng := newEngine(t, sac.WithSeed(1), sac.WithInlierThreshold(0.05), sac.WithMinModelSupport(10))

	res, err := eng.RunMulti(context.Background(), testutil.LineEstimator{}, data)
	require.NoError(t, err)
	require.Len(t, res.Models, 2)
	assert.Len(t, res.Rounds, 2)

	first, second := res.Models[0], res.Models[1]
	assert.Equal(t, 21, first.Support)
	assert.Equal(t, 20, second.Support)
	assert.Equal(t, 21, first.Inliers.Len())
	assert.Equal(t, 21, second.Inliers.Len())

	// The origin lies on both axes.
	assert.True(t, first.Inliers.Contains(10))
	assert.True(t, second.Inliers.Contains(10))

	xAxis := testutil.Line{B: 1}
	yAxis := testutil.Line{A: 1}
	for _, c := range res.Models {
		assert.True(t, c.Model.Equivalent(xAxis, 1e-9) || c.Model.Equivalent(yAxis, 1e-9), "got %v", c.Model)
	}
	assert.False(t, first.Model.Equivalent(second.Model, 1e-3))

	assert.Equal(t, len(data), res.Union().Len())
}

func TestFindModelsTwoLines(t *testing.T) {
	rng := testutil.NewRNG(77)
	l1, _ := testutil.NewLine(1, -1, 0)
	l2, _ := testutil.NewLine(1, 1, -4)
	data := append(rng.LineDataset(l1, 80, 0, 0.02, 10), rng.LineDataset(l2, 60, 30, 0.02, 10)...)

	opts := []sac.Option{sac.WithSeed(3), sac.WithInlierThreshold(0.08), sac.WithMinModelSupport(25), sac.WithRefitRounds(2)}

	models, err := newEngine(t, opts...).FindModels(context.Background(), testutil.LineEstimator{}, data)
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.True(t, models[0].Model.Equivalent(l1, 0.05), "got %v", models[0].Model)
	assert.True(t, models[1].Model.Equivalent(l2, 0.05), "got %v", models[1].Model)
	assert.GreaterOrEqual(t, models[0].Support, models[1].Support)

	single, ok, err := newEngine(t, opts...).FindModelWithInliers(context.Background(), testutil.LineEstimator{}, data)
	require.NoError(t, err)
	require.True(t, ok)

	multi := &sac.MultiResult[line]{Models: models}
	assert.True(t, multi.Union().IsSuperset(single.Inliers))
}

func TestFindModelsMaxModels(t *testing.T) {
	res, err := newEngine(t, sac.WithSeed(1), sac.WithInlierThreshold(0.05), sac.WithMaxModels(1)).
		RunMulti(context.Background(), testutil.LineEstimator{}, crossData())
	require.NoError(t, err)
	assert.Len(t, res.Models, 1)
	assert.Len(t, res.Rounds, 1)
}

func TestFindModelsNoneAccepted(t *testing.T) {
	res, err := newEngine(t, sac.WithInlierThreshold(0.05), sac.WithMinModelSupport(50)).
		RunMulti(context.Background(), testutil.LineEstimator{}, crossData())
	require.NoError(t, err)
	assert.Empty(t, res.Models)
	assert.Len(t, res.Rounds, 1)
	assert.True(t, res.Union().IsEmpty())
}

func TestFindModelsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newEngine(t).RunMulti(ctx, testutil.LineEstimator{}, crossData())
	require.NoError(t, err)
	assert.Empty(t, res.Models)
	assert.Empty(t, res.Rounds)
}

func TestFindModelsMetrics(t *testing.T) {
	metrics := &sac.BasicMetricsCollector{}
	_, err := newEngine(t, sac.WithSeed(1), sac.WithInlierThreshold(0.05), sac.WithMetricsCollector(metrics)).
		FindModels(context.Background(), testutil.LineEstimator{}, crossData())
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.MultiRunCount)
	assert.Equal(t, int64(2), stats.ModelCount)
	assert.Equal(t, int64(2), stats.RunFound)
}

// stripe is a model over stripe labels: a point is an inlier when it carries the label.
type stripe int

func (s stripe) Residual(p int) float64 {
	if int(s) == p {
		return 0
	}
	return 1
}

// slowStripes proposes the stripe of its single sample point after a delay.
type slowStripes struct {
	delay time.Duration
}

func (slowStripes) MinSamples() int { return 1 }

func (s slowStripes) Estimate(sample []int) []stripe {
	time.Sleep(s.delay)
	return []stripe{stripe(sample[0])}
}

func TestRunMultiTimeoutCoversWholeRun(t *testing.T) {
	// Stripe j holds 2^(12-j) points, so every round peels off about half of the pool
	// and at most 12 rounds qualify.
	var data []int
	for j := 0; j < 13; j++ {
		for range 1 << (12 - j) {
			data = append(data, j)
		}
	}

	const delay = 5 * time.Millisecond
	timeout := 15 * time.Millisecond
	eng, err := sac.New[int, stripe](
		sac.WithSeed(1),
		sac.WithInlierThreshold(0.5),
		sac.WithConfidence(0.5),
		sac.WithTimeout(timeout),
	)
	require.NoError(t, err)

	start := time.Now()
	res, err := eng.RunMulti(context.Background(), slowStripes{delay: delay}, data)
	elapsed := time.Since(start)
	require.NoError(t, err)

	// Every round runs at least one delayed trial, so 12 models would take 12 * delay.
	assert.NotEmpty(t, res.Models)
	assert.Less(t, len(res.Models), 12)
	assert.Less(t, elapsed, 3*timeout)
}
