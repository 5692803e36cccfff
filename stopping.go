package sac

import (
	"math"
)

// RequiredTrials returns the number of trials needed so that, with probability
// confidence, at least one minimal sample of minSamples points is outlier-free
// when a fraction inlierRatio of the points are inliers:
//
//	log(1 - confidence) / log(1 - inlierRatio^minSamples)
//
// It returns +Inf when inlierRatio <= 0 and 0 when inlierRatio >= 1.
func RequiredTrials(inlierRatio, confidence float64, minSamples int) float64 {
	if inlierRatio >= 1 {
		return 0
	}
	if !(inlierRatio > 0) {
		return math.Inf(1)
	}

	good := math.Pow(inlierRatio, float64(minSamples))
	denom := math.Log1p(-good)
	if denom == 0 {
		// w^k underflowed.
		return math.Inf(1)
	}
	return math.Log1p(-confidence) / denom
}

// trialBound rounds RequiredTrials up and clamps it to ceiling.
func trialBound(support, pool int, confidence float64, minSamples, ceiling int) int64 {
	if pool <= 0 {
		return int64(ceiling)
	}
	n := RequiredTrials(float64(support)/float64(pool), confidence, minSamples)
	if n >= float64(ceiling) {
		return int64(ceiling)
	}
	return int64(math.Ceil(n))
}
