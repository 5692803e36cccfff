// Package sac provides a generic sample-consensus (RANSAC) engine for Go.
//
// Given a dataset that mixes points explained by one or more models with
// erroneous outliers, sac finds the model(s) supported by the largest
// consistent subsets without being corrupted by the outliers.
//
// The engine is generic over three capabilities:
//
//   - Model: a fitted hypothesis that scores a single point with Residual.
//   - Estimator: turns a minimal sample of MinSamples points into zero or more Models.
//   - sample.Sampler: draws distinct indices uniformly at random.
//
// Models and estimators are supplied by the caller; the testutil package has
// reference 2D line and 3D plane implementations.
//
// # Quick Start
//
//	eng, _ := sac.New[testutil.Point2, testutil.Line](
//	    sac.WithInlierThreshold(0.5),
//	    sac.WithSeed(42),
//	)
//	c, ok, err := eng.FindModelWithInliers(ctx, testutil.LineEstimator{}, points)
//	if err != nil {
//	    // Contract violation, e.g. *sac.ErrInsufficientData.
//	}
//	if ok {
//	    fmt.Println(c.Model, c.Inliers)
//	}
//
// # Search
//
// Every trial draws MinSamples distinct points, estimates candidate models and
// counts the points within the inlier threshold. The best candidate has the
// most inliers; ties go to the lower residual sum, then to the earlier trial.
// After each improvement the adaptive bound
//
//	ceil(log(1 - confidence) / log(1 - w^MinSamples))
//
// is recomputed from the inlier ratio w, and no trial starts past it. The
// hard ceiling WithMaxTrials and the deadline WithTimeout (or the context)
// always apply; on expiry the best model found so far is returned.
//
// When the number of distinct minimal samples does not exceed the trial
// ceiling, they are enumerated once each in random order instead.
//
// # Multi-Consensus
//
// FindModels repeats the search on the points not yet claimed by a model.
// Inlier sets are evaluated over the whole dataset and may overlap.
//
//	models, _ := eng.FindModels(ctx, testutil.PlaneEstimator{}, cloud)
//
// # Concurrency
//
// WithWorkers runs trials on several goroutines, each with its own random
// stream derived from the master seed. An Engine itself must not be shared
// between goroutines.
//
// # Errors
//
// Only contract violations are errors: a dataset smaller than MinSamples
// (*ErrInsufficientData), an invalid estimator, or invalid configuration.
// "No model found" is reported as ok == false.
package sac
