package sac

import (
	"log/slog"
	"time"

	"github.com/hupe1980/sac/sample"
)

type options struct {
	cfg              Config
	seed             *uint64
	samplerFactory   sample.Factory
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithConfig replaces every tunable with cfg, including the seed: a zero
// cfg.Seed drops a seed set by an earlier WithSeed. Options applied later
// still override individual fields.
//
// Example:
//
//	cfg, _ := sac.LoadConfig(ctx, "SAC_")
//	eng, _ := sac.New[Point, Line](sac.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
		o.seed = nil
		if cfg.Seed != 0 {
			seed := cfg.Seed
			o.seed = &seed
		}
	}
}

// WithInlierThreshold sets the largest residual still counted as an inlier.
func WithInlierThreshold(t float64) Option {
	return func(o *options) {
		o.cfg.InlierThreshold = t
	}
}

// WithConfidence sets the target probability, in (0, 1), used by the adaptive stopping rule.
func WithConfidence(p float64) Option {
	return func(o *options) {
		o.cfg.Confidence = p
	}
}

// WithMaxTrials sets the hard ceiling on trials per search.
func WithMaxTrials(n int) Option {
	return func(o *options) {
		o.cfg.MaxTrials = n
	}
}

// WithMinInliers sets the smallest support a winning model may have.
// 0 means MinSamples of the estimator.
func WithMinInliers(n int) Option {
	return func(o *options) {
		o.cfg.MinInliers = n
	}
}

// WithMaxModels caps the number of models returned by FindModels. 0 = unlimited.
func WithMaxModels(n int) Option {
	return func(o *options) {
		o.cfg.MaxModels = n
	}
}

// WithMinModelSupport sets the number of new points a multi-consensus round
// must explain for its model to be kept. 0 means twice MinSamples.
func WithMinModelSupport(n int) Option {
	return func(o *options) {
		o.cfg.MinModelSupport = n
	}
}

// WithWorkers runs trials on n goroutines.
//
// Each worker owns its own sampler, so a fixed seed still selects a fixed
// set of random streams. Results are only reproducible with n = 1: with more
// workers the set of trials that ends up running depends on scheduling.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithScoreParallelism splits the residual scan of each candidate into up to n chunks.
// Chunks smaller than a few thousand points are not split.
func WithScoreParallelism(n int) Option {
	return func(o *options) {
		o.cfg.ScoreParallelism = n
	}
}

// WithTimeout bounds the wall-clock time of every Run, and of every RunMulti
// as a whole. When it fires, the best models found so far are returned.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.cfg.Timeout = d
	}
}

// WithSeed fixes the master seed. Worker w draws from the PCG stream (seed, w).
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithSamplerFactory supplies the randomness capability directly.
// The factory is called once per worker when the Engine is created.
// It takes precedence over WithSeed.
func WithSamplerFactory(f sample.Factory) Option {
	return func(o *options) {
		o.samplerFactory = f
	}
}

// WithRefitRounds re-estimates the winning model from its inliers up to n times.
func WithRefitRounds(n int) Option {
	return func(o *options) {
		o.cfg.RefitRounds = n
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sac.BasicMetricsCollector{}
//	eng, _ := sac.New[Point, Line](sac.WithMetricsCollector(metrics))
//	// ... run searches ...
//	stats := metrics.GetStats()
//	fmt.Printf("Trials: %d, degenerate: %d\n", stats.TrialCount, stats.DegenerateCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sac.NewJSONLogger(slog.LevelDebug)
//	eng, _ := sac.New[Point, Line](sac.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		cfg:              DefaultConfig(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
