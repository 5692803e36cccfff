package sac

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/sac/inlier"
	"github.com/hupe1980/sac/sample"
)

// StopReason tells why a search stopped sampling.
type StopReason int

const (
	// StopConverged means the adaptive bound was reached.
	StopConverged StopReason = iota
	// StopPerfect means every point of the search pool is an inlier.
	StopPerfect
	// StopMaxTrials means the hard trial ceiling was reached.
	StopMaxTrials
	// StopExhausted means every distinct minimal sample was tried.
	StopExhausted
	// StopDeadline means the timeout or the context deadline expired.
	StopDeadline
	// StopCanceled means the context was canceled.
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopConverged:
		return "converged"
	case StopPerfect:
		return "perfect"
	case StopMaxTrials:
		return "max_trials"
	case StopExhausted:
		return "exhausted"
	case StopDeadline:
		return "deadline"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Consensus is a model together with the dataset indices that support it.
type Consensus[M any] struct {
	Model M

	// Inliers holds the indices of every point whose residual is within the
	// inlier threshold. Multi-consensus inlier sets may overlap.
	Inliers *inlier.Set

	// Support is the inlier count the model was ranked by when it was found.
	// For single-model searches it equals Inliers.Len(); in multi-consensus it
	// counts only points not claimed by earlier models.
	Support int

	// MeanResidual is the mean residual over Inliers.
	MeanResidual float64
}

// Report describes one search.
type Report struct {
	// Trials is the number of trials that ran.
	Trials int
	// BestTrial is the 0-based trial that produced the winning model.
	BestTrial int
	// Degenerate counts trials for which the estimator returned no model.
	Degenerate int
	// Candidates counts models returned by the estimator.
	Candidates int
	// Bound is the final adaptive trial bound, clamped to the ceiling.
	Bound int
	// Exhaustive is true when minimal samples were enumerated without repetition.
	Exhaustive bool
	Stop       StopReason
	Elapsed    time.Duration
}

// Result is the outcome of Run. A nil Consensus means no model was found.
type Result[M any] struct {
	Consensus *Consensus[M]
	Report    Report
}

// Engine runs consensus searches for one estimator model class.
//
// An Engine owns its random streams and scratch buffers and holds no state
// about past datasets. It is not safe for concurrent use; create one Engine
// per goroutine (each may itself use several workers, see WithWorkers).
type Engine[D any, M Model[D]] struct {
	opts     options
	samplers []sample.Sampler
	scratch  []*scratch[D]
}

type scratch[D any] struct {
	idx    []int
	points []D
}

// New creates an Engine.
func New[D any, M Model[D]](optFns ...Option) (*Engine[D, M], error) {
	opts := applyOptions(optFns)
	if err := opts.cfg.Validate(); err != nil {
		return nil, err
	}

	factory := opts.samplerFactory
	if factory == nil {
		seed := rand.Uint64()
		if opts.seed != nil {
			seed = *opts.seed
		}
		factory = sample.PCGFactory(seed)
	}

	workers := opts.cfg.Workers
	e := &Engine[D, M]{
		opts:     opts,
		samplers: make([]sample.Sampler, workers),
		scratch:  make([]*scratch[D], workers),
	}
	for w := range workers {
		s := factory(w)
		if s == nil {
			return nil, invalidConfig("sampler factory returned nil for worker %d", w)
		}
		e.samplers[w] = s
		e.scratch[w] = &scratch[D]{}
	}

	return e, nil
}

// Config returns the effective configuration.
func (e *Engine[D, M]) Config() Config {
	return e.opts.cfg
}

// FindModel returns the model with the largest consensus in data.
// ok is false when no valid model could be found.
func (e *Engine[D, M]) FindModel(ctx context.Context, est Estimator[D, M], data []D) (model M, ok bool, err error) {
	res, err := e.Run(ctx, est, data)
	if err != nil || res.Consensus == nil {
		return model, false, err
	}
	return res.Consensus.Model, true, nil
}

// FindModelWithInliers is FindModel that also returns the supporting indices.
func (e *Engine[D, M]) FindModelWithInliers(ctx context.Context, est Estimator[D, M], data []D) (Consensus[M], bool, error) {
	res, err := e.Run(ctx, est, data)
	if err != nil || res.Consensus == nil {
		return Consensus[M]{}, false, err
	}
	return *res.Consensus, true, nil
}

// Run searches data for the model with the largest consensus and reports how
// the search went.
//
// It fails only on contract violations: a dataset smaller than
// est.MinSamples() yields *ErrInsufficientData. Degenerate samples, runs
// without any model, and cancellation are reported through Result.
func (e *Engine[D, M]) Run(ctx context.Context, est Estimator[D, M], data []D) (*Result[M], error) {
	start := time.Now()
	k, err := checkInput(est, data)
	if err != nil {
		e.opts.logger.WarnContext(ctx, "consensus rejected input", "error", err)
		return nil, err
	}

	in := &searchInput[D, M]{est: est, data: data, k: k}
	winner, report := e.search(ctx, in)

	res := &Result[M]{Report: report}
	found := winner.valid && winner.support >= e.minInliers(k)
	if found {
		winner = e.refit(in, winner)
		res.Consensus = e.consensus(data, winner)
	}
	res.Report.Elapsed = time.Since(start)

	support := 0
	if found {
		support = winner.support
	}
	e.opts.metricsCollector.RecordRun(report.Trials, support, found, res.Report.Elapsed)
	e.opts.logger.LogRun(ctx, len(data), res.Report, support, found)

	return res, nil
}

func (e *Engine[D, M]) minInliers(k int) int {
	if e.opts.cfg.MinInliers > 0 {
		return e.opts.cfg.MinInliers
	}
	return k
}

func checkInput[D any, M Model[D]](est Estimator[D, M], data []D) (int, error) {
	if est == nil {
		return 0, fmt.Errorf("%w: nil estimator", ErrInvalidEstimator)
	}
	k := est.MinSamples()
	if k < 1 {
		return 0, fmt.Errorf("%w: MinSamples must be positive, got %d", ErrInvalidEstimator, k)
	}
	if len(data) < k {
		return 0, &ErrInsufficientData{Need: k, Have: len(data)}
	}
	if uint64(len(data))-1 > inlier.MaxIndex {
		return 0, fmt.Errorf("%w: %d points", ErrDatasetTooLarge, len(data))
	}
	return k, nil
}
