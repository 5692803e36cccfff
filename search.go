package sac

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/sac/inlier"
	"github.com/hupe1980/sac/internal/budget"
	"github.com/hupe1980/sac/internal/score"
	"github.com/hupe1980/sac/sample"
)

const progressInterval = time.Second

// searchInput is the dataset view of one search. pool lists the dataset
// indices eligible for sampling and scoring; nil means all of them.
type searchInput[D any, M Model[D]] struct {
	est  Estimator[D, M]
	data []D
	pool []int
	k    int
}

func (in *searchInput[D, M]) size() int {
	if in.pool == nil {
		return len(in.data)
	}
	return len(in.pool)
}

func (in *searchInput[D, M]) at(i int) int {
	if in.pool == nil {
		return i
	}
	return in.pool[i]
}

type candidate[M any] struct {
	model   M
	support int
	sum     float64
	trial   int
	rank    int
	valid   bool
}

// beats orders candidates: more support, then lower residual sum (equal
// support, so lower mean), then the earlier trial, then the earlier model of
// that trial.
func (c *candidate[M]) beats(o *candidate[M]) bool {
	if !o.valid {
		return c.valid
	}
	if c.support != o.support {
		return c.support > o.support
	}
	if c.sum != o.sum {
		return c.sum < o.sum
	}
	if c.trial != o.trial {
		return c.trial < o.trial
	}
	return c.rank < o.rank
}

// bestSlot is the best candidate shared by the workers of one search.
type bestSlot[M any] struct {
	mu sync.Mutex
	c  candidate[M]
}

// offer installs c if it beats the current best and returns the best support.
func (b *bestSlot[M]) offer(c candidate[M]) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !c.beats(&b.c) {
		return b.c.support, false
	}
	b.c = c
	return c.support, true
}

func (b *bestSlot[M]) load() candidate[M] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.c
}

type workerStats struct {
	degenerate int
	candidates int
}

func (e *Engine[D, M]) search(ctx context.Context, in *searchInput[D, M]) (candidate[M], Report) {
	cfg := e.opts.cfg
	n := in.size()

	ceiling := cfg.MaxTrials
	count, exhaustive := sample.CountCombinations(n, in.k, ceiling)
	if exhaustive {
		ceiling = count
	}

	bud := budget.New(budget.Config{MaxTrials: ceiling, MaxDuration: cfg.Timeout})
	var plan *sample.Plan
	if exhaustive {
		plan = sample.NewPlan(e.samplers[0], n, in.k, count)
	}
	best := &bestSlot[M]{}
	progress := &rate.Sometimes{Interval: progressInterval}
	stats := make([]workerStats, cfg.Workers)

	run := func(w int) {
		stats[w] = e.work(ctx, w, in, plan, bud, best, progress)
	}
	if cfg.Workers == 1 {
		run(0)
	} else {
		var g errgroup.Group
		for w := range cfg.Workers {
			g.Go(func() error {
				run(w)
				return nil
			})
		}
		_ = g.Wait()
	}

	winner := best.load()
	report := Report{
		Trials:     bud.Completed(),
		Bound:      bud.Bound(),
		Exhaustive: plan != nil,
		Elapsed:    bud.Elapsed(),
	}
	for _, s := range stats {
		report.Degenerate += s.degenerate
		report.Candidates += s.candidates
	}
	if winner.valid {
		report.BestTrial = winner.trial
	}
	report.Stop = stopReason(ctx, bud.Reason(), winner, n, plan != nil)

	return winner, report
}

// work runs trials until the budget refuses a claim.
func (e *Engine[D, M]) work(
	ctx context.Context,
	w int,
	in *searchInput[D, M],
	plan *sample.Plan,
	bud *budget.Budget,
	best *bestSlot[M],
	progress *rate.Sometimes,
) workerStats {
	var st workerStats
	cfg := e.opts.cfg
	n := in.size()
	sampler := e.samplers[w]
	sc := e.scratchFor(w, in.k)
	defer clear(sc.points)

	for {
		if ctx.Err() != nil {
			bud.Cancel()
			return st
		}
		if !bud.CheckDeadline() {
			return st
		}
		t, ok := bud.Claim()
		if !ok {
			return st
		}

		if plan != nil {
			plan.Draw(sc.idx, t)
		} else {
			sampler.Sample(sc.idx, n)
		}
		for i, p := range sc.idx {
			sc.points[i] = in.data[in.at(p)]
		}

		models := in.est.Estimate(sc.points)
		e.opts.metricsCollector.RecordTrial(len(models))
		if len(models) == 0 {
			st.degenerate++
			bud.Complete()
			continue
		}
		st.candidates += len(models)

		for j, m := range models {
			tally := e.tally(in, m)
			c := candidate[M]{model: m, support: tally.Count, sum: tally.Sum, trial: t, rank: j, valid: true}
			if support, improved := best.offer(c); improved {
				bud.Tighten(trialBound(support, n, cfg.Confidence, in.k, cfg.MaxTrials))
			}
		}
		bud.Complete()

		progress.Do(func() {
			e.opts.logger.LogProgress(ctx, bud.Completed(), bud.Bound(), best.load().support)
		})
	}
}

func (e *Engine[D, M]) tally(in *searchInput[D, M], m M) score.Tally {
	residual := func(i int) float64 {
		return m.Residual(in.data[in.at(i)])
	}
	cfg := e.opts.cfg
	if cfg.ScoreParallelism > 1 {
		return score.Parallel(in.size(), cfg.InlierThreshold, cfg.ScoreParallelism, residual)
	}
	return score.Count(in.size(), cfg.InlierThreshold, residual)
}

// refit re-estimates the winner from its consensus set. A refit model replaces
// the winner only when it is strictly better.
func (e *Engine[D, M]) refit(in *searchInput[D, M], winner candidate[M]) candidate[M] {
	cfg := e.opts.cfg
	for range cfg.RefitRounds {
		idx, _ := score.Collect(in.size(), cfg.InlierThreshold, func(i int) float64 {
			return winner.model.Residual(in.data[in.at(i)])
		})
		if len(idx) < in.k {
			break
		}

		points := make([]D, len(idx))
		for i, p := range idx {
			points[i] = in.data[in.at(int(p))]
		}

		improved := false
		for _, m := range in.est.Estimate(points) {
			t := e.tally(in, m)
			if t.Count > winner.support || (t.Count == winner.support && t.Sum < winner.sum) {
				winner.model, winner.support, winner.sum = m, t.Count, t.Sum
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return winner
}

// consensus classifies every point of data against the winner.
func (e *Engine[D, M]) consensus(data []D, c candidate[M]) *Consensus[M] {
	idx, sum := score.Collect(len(data), e.opts.cfg.InlierThreshold, func(i int) float64 {
		return c.model.Residual(data[i])
	})

	set := inlier.New()
	set.AddMany(idx)

	mean := 0.0
	if len(idx) > 0 {
		mean = sum / float64(len(idx))
	}

	return &Consensus[M]{
		Model:        c.model,
		Inliers:      set,
		Support:      c.support,
		MeanResidual: mean,
	}
}

func (e *Engine[D, M]) scratchFor(w, k int) *scratch[D] {
	sc := e.scratch[w]
	if cap(sc.idx) < k {
		sc.idx = make([]int, k)
		sc.points = make([]D, k)
	}
	sc.idx = sc.idx[:k]
	sc.points = sc.points[:k]
	return sc
}

func stopReason[M any](ctx context.Context, r budget.Reason, winner candidate[M], pool int, exhaustive bool) StopReason {
	switch r {
	case budget.ReasonBound:
		if winner.valid && winner.support == pool {
			return StopPerfect
		}
		return StopConverged
	case budget.ReasonDeadline:
		return StopDeadline
	case budget.ReasonCanceled:
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return StopDeadline
		}
		return StopCanceled
	}
	if exhaustive {
		return StopExhausted
	}
	return StopMaxTrials
}
