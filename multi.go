package sac

import (
	"context"
	"sort"
	"time"

	"github.com/hupe1980/sac/inlier"
)

// MultiResult is the outcome of RunMulti.
type MultiResult[M any] struct {
	// Models is sorted by Support, largest first.
	Models []Consensus[M]

	// Rounds has one report per search round, including the final round
	// that found no acceptable model.
	Rounds []Report
}

// Union returns the set of indices explained by at least one model.
func (r *MultiResult[M]) Union() *inlier.Set {
	sets := make([]*inlier.Set, len(r.Models))
	for i, c := range r.Models {
		sets[i] = c.Inliers
	}
	return inlier.Union(sets...)
}

// FindModels returns every model found by repeated consensus searches,
// sorted by support at discovery, largest first.
func (e *Engine[D, M]) FindModels(ctx context.Context, est Estimator[D, M], data []D) ([]Consensus[M], error) {
	res, err := e.RunMulti(ctx, est, data)
	if err != nil {
		return nil, err
	}
	return res.Models, nil
}

// RunMulti discovers several coexisting models.
//
// Each round runs a single-model search whose samples and support are drawn
// only from points not yet claimed by an earlier model. The winner's inlier set
// is then evaluated over the whole dataset, so a point may belong to several
// models, and all of it is claimed. Rounds stop when the unclaimed pool is
// smaller than a minimal sample, when a round's winner explains fewer than
// MinModelSupport new points, when MaxModels is reached, or when the context
// ends. The Timeout bounds the whole run, not each round.
func (e *Engine[D, M]) RunMulti(ctx context.Context, est Estimator[D, M], data []D) (*MultiResult[M], error) {
	start := time.Now()
	k, err := checkInput(est, data)
	if err != nil {
		e.opts.logger.LogMultiRun(ctx, len(data), 0, 0, err)
		return nil, err
	}

	cfg := e.opts.cfg
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	minSupport := cfg.MinModelSupport
	if minSupport <= 0 {
		minSupport = 2 * k
	}

	res := &MultiResult[M]{}
	claimed := inlier.New()

	for round := 0; cfg.MaxModels == 0 || len(res.Models) < cfg.MaxModels; round++ {
		if ctx.Err() != nil {
			break
		}

		pool := claimed.Complement(len(data))
		if len(pool) < k {
			break
		}
		if len(pool) == len(data) {
			pool = nil
		}

		in := &searchInput[D, M]{est: est, data: data, pool: pool, k: k}
		winner, report := e.search(ctx, in)
		res.Rounds = append(res.Rounds, report)

		accepted := winner.valid && winner.support >= minSupport && winner.support >= e.minInliers(k)
		e.opts.logger.WithRound(round).LogRound(ctx, in.size(), winner.support, accepted)
		e.opts.metricsCollector.RecordRun(report.Trials, winner.support, accepted, report.Elapsed)
		if !accepted {
			break
		}

		winner = e.refit(in, winner)
		c := e.consensus(data, winner)
		res.Models = append(res.Models, *c)
		claimed.Or(c.Inliers)

		if report.Stop == StopDeadline || report.Stop == StopCanceled {
			break
		}
	}

	sort.SliceStable(res.Models, func(i, j int) bool {
		return res.Models[i].Support > res.Models[j].Support
	})

	e.opts.metricsCollector.RecordMultiRun(len(res.Models), time.Since(start))
	e.opts.logger.LogMultiRun(ctx, len(data), len(res.Models), len(res.Rounds), nil)

	return res, nil
}
