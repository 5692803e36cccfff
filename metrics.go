package sac

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting search metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// the prommetrics package provides one.
//
// RecordTrial runs on the worker hot path and may be called concurrently.
type MetricsCollector interface {
	// RecordTrial is called after each trial.
	// candidates is the number of models the estimator returned; zero means
	// the sample was degenerate.
	RecordTrial(candidates int)

	// RecordRun is called after each single-model search (including every
	// multi-consensus round). support is 0 when no model was found.
	RecordRun(trials int, support int, found bool, duration time.Duration)

	// RecordMultiRun is called after each multi-model search.
	RecordMultiRun(models int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrial(int)                          {}
func (NoopMetricsCollector) RecordRun(int, int, bool, time.Duration) {}
func (NoopMetricsCollector) RecordMultiRun(int, time.Duration)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrialCount      atomic.Int64
	DegenerateCount atomic.Int64
	CandidateCount  atomic.Int64
	RunCount        atomic.Int64
	RunFound        atomic.Int64
	RunTrials       atomic.Int64
	RunTotalNanos   atomic.Int64
	MultiRunCount   atomic.Int64
	ModelCount      atomic.Int64
}

// RecordTrial implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrial(candidates int) {
	b.TrialCount.Add(1)
	if candidates == 0 {
		b.DegenerateCount.Add(1)
		return
	}
	b.CandidateCount.Add(int64(candidates))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(trials int, _ int, found bool, duration time.Duration) {
	b.RunCount.Add(1)
	b.RunTrials.Add(int64(trials))
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if found {
		b.RunFound.Add(1)
	}
}

// RecordMultiRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMultiRun(models int, _ time.Duration) {
	b.MultiRunCount.Add(1)
	b.ModelCount.Add(int64(models))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrialCount:      b.TrialCount.Load(),
		DegenerateCount: b.DegenerateCount.Load(),
		CandidateCount:  b.CandidateCount.Load(),
		RunCount:        b.RunCount.Load(),
		RunFound:        b.RunFound.Load(),
		RunAvgTrials:    b.getAvgTrials(),
		RunAvgNanos:     b.getAvgRunNanos(),
		MultiRunCount:   b.MultiRunCount.Load(),
		ModelCount:      b.ModelCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTrials() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTrials.Load() / count
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrialCount      int64
	DegenerateCount int64
	CandidateCount  int64
	RunCount        int64
	RunFound        int64
	RunAvgTrials    int64
	RunAvgNanos     int64
	MultiRunCount   int64
	ModelCount      int64
}
