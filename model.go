package sac

// Model is a fitted hypothesis.
//
// Residual must be a pure, deterministic function of the model and the point
// and must return a non-negative value. Lower residuals mean stronger support.
// A NaN residual is never counted as an inlier.
type Model[D any] interface {
	Residual(point D) float64
}

// Estimator turns a sample of data into candidate models.
type Estimator[D any, M Model[D]] interface {
	// MinSamples is the size of a minimal sample. It must be at least 1.
	MinSamples() int

	// Estimate fits zero or more models to sample.
	//
	// The engine always passes at least MinSamples points: exactly MinSamples
	// while searching and the full consensus set while refitting. Implementations
	// may panic on fewer. Returning no model marks the sample as degenerate;
	// the engine discards the trial and keeps sampling.
	//
	// sample is scratch memory owned by the engine and must not be retained.
	Estimate(sample []D) []M
}
