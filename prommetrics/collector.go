// Package prommetrics exports sac search metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	col, err := prommetrics.New(reg, prommetrics.WithNamespace("vision"))
//	eng, err := sac.New[Point, Model](sac.WithMetricsCollector(col))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/sac"
)

var _ sac.MetricsCollector = (*Collector)(nil)

// Collector implements sac.MetricsCollector with Prometheus counters and histograms.
type Collector struct {
	trials       *prometheus.CounterVec
	candidates   prometheus.Counter
	runs         *prometheus.CounterVec
	runTrials    prometheus.Histogram
	runSupport   prometheus.Histogram
	runLatency   *prometheus.HistogramVec
	multiRuns    prometheus.Counter
	multiModels  prometheus.Histogram
	multiLatency prometheus.Histogram
}

type options struct {
	namespace     string
	subsystem     string
	constLabels   prometheus.Labels
	latencyBucket []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace. Default "sac".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithSubsystem sets the metric subsystem.
func WithSubsystem(s string) Option {
	return func(o *options) { o.subsystem = s }
}

// WithConstLabels attaches constant labels to every metric.
func WithConstLabels(l prometheus.Labels) Option {
	return func(o *options) { o.constLabels = l }
}

// WithLatencyBuckets overrides the run latency buckets (seconds).
func WithLatencyBuckets(b []float64) Option {
	return func(o *options) { o.latencyBucket = b }
}

// New creates a Collector and registers it on reg.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	o := options{
		namespace:     "sac",
		latencyBucket: prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	countOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, Name: name, Help: help, ConstLabels: o.constLabels,
		}
	}
	histOpts := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, Name: name, Help: help, ConstLabels: o.constLabels,
			Buckets: buckets,
		}
	}

	c := &Collector{
		trials:       prometheus.NewCounterVec(countOpts("trials_total", "Trials run, by outcome."), []string{"outcome"}),
		candidates:   prometheus.NewCounter(countOpts("candidates_total", "Candidate models returned by the estimator.")),
		runs:         prometheus.NewCounterVec(countOpts("runs_total", "Single-model searches, by result."), []string{"result"}),
		runTrials:    prometheus.NewHistogram(histOpts("run_trials", "Trials per search.", prometheus.ExponentialBuckets(1, 4, 8))),
		runSupport:   prometheus.NewHistogram(histOpts("run_support", "Inlier support of found models.", prometheus.ExponentialBuckets(2, 4, 10))),
		runLatency:   prometheus.NewHistogramVec(histOpts("run_duration_seconds", "Search latency.", o.latencyBucket), []string{"result"}),
		multiRuns:    prometheus.NewCounter(countOpts("multi_runs_total", "Multi-model searches.")),
		multiModels:  prometheus.NewHistogram(histOpts("multi_models", "Models found per multi-model search.", prometheus.LinearBuckets(0, 1, 10))),
		multiLatency: prometheus.NewHistogram(histOpts("multi_duration_seconds", "Multi-model search latency.", o.latencyBucket)),
	}

	for _, col := range []prometheus.Collector{
		c.trials, c.candidates, c.runs, c.runTrials, c.runSupport,
		c.runLatency, c.multiRuns, c.multiModels, c.multiLatency,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordTrial implements sac.MetricsCollector.
func (c *Collector) RecordTrial(candidates int) {
	if candidates == 0 {
		c.trials.WithLabelValues("degenerate").Inc()
		return
	}
	c.trials.WithLabelValues("scored").Inc()
	c.candidates.Add(float64(candidates))
}

// RecordRun implements sac.MetricsCollector.
func (c *Collector) RecordRun(trials int, support int, found bool, d time.Duration) {
	result := "none"
	if found {
		result = "found"
		c.runSupport.Observe(float64(support))
	}
	c.runs.WithLabelValues(result).Inc()
	c.runTrials.Observe(float64(trials))
	c.runLatency.WithLabelValues(result).Observe(d.Seconds())
}

// RecordMultiRun implements sac.MetricsCollector.
func (c *Collector) RecordMultiRun(models int, d time.Duration) {
	c.multiRuns.Inc()
	c.multiModels.Observe(float64(models))
	c.multiLatency.Observe(d.Seconds())
}
