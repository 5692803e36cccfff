// Package testutil provides testing utilities for sac.
//
// This package is intended for use in tests, examples and benchmarks only.
// It provides reference collaborators for the consensus engine and helpers for
// generating noisy synthetic datasets.
//
// # Reference Collaborators
//
//	testutil.LineEstimator{}   // 2D lines, MinSamples 2
//	testutil.PlaneEstimator{}  // 3D planes, MinSamples 3
//
// Both fit exactly through a minimal sample and by total least squares through
// larger ones, and return no model for degenerate samples.
//
// # Synthetic Data
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.LineDataset(testutil.Line{A: 0.6, B: 0.8}, 80, 20, 0.05, 10)
//
// # Instrumented Estimators
//
//	rec := testutil.NewRecording(testutil.LineEstimator{})
//	// ... run a search with rec ...
//	rec.Models() // every candidate the engine scored
package testutil
