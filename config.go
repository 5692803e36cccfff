package sac

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the tunables of an Engine.
//
// Every field can be loaded from the environment with LoadConfig; the tag
// names below are joined to the caller's prefix (e.g. "SAC_CONFIDENCE").
type Config struct {
	// InlierThreshold is the largest residual still counted as an inlier.
	InlierThreshold float64 `env:"INLIER_THRESHOLD, default=1"`

	// Confidence is the target probability, in (0, 1), that at least one
	// outlier-free minimal sample was drawn when the adaptive bound stops the search.
	Confidence float64 `env:"CONFIDENCE, default=0.99"`

	// MaxTrials is the hard ceiling on trials per search.
	MaxTrials int `env:"MAX_TRIALS, default=1000"`

	// MinInliers is the smallest support a winning model may have.
	// 0 means MinSamples of the estimator.
	MinInliers int `env:"MIN_INLIERS"`

	// MaxModels caps the number of models returned by multi-consensus. 0 = unlimited.
	MaxModels int `env:"MAX_MODELS"`

	// MinModelSupport ends multi-consensus once a round's winner explains fewer
	// new points than this. 0 means twice MinSamples of the estimator.
	MinModelSupport int `env:"MIN_MODEL_SUPPORT"`

	// Workers is the number of goroutines running trials.
	Workers int `env:"WORKERS, default=1"`

	// ScoreParallelism splits residual scoring of one candidate into this many chunks.
	ScoreParallelism int `env:"SCORE_PARALLELISM, default=1"`

	// Timeout is the wall-clock limit of one Run or one whole RunMulti. 0 = unlimited.
	Timeout time.Duration `env:"TIMEOUT"`

	// Seed fixes the master seed. 0 selects a random seed.
	Seed uint64 `env:"SEED"`

	// RefitRounds re-estimates the winner from its consensus set up to this many times.
	RefitRounds int `env:"REFIT_ROUNDS"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		InlierThreshold:  1,
		Confidence:       0.99,
		MaxTrials:        1000,
		Workers:          1,
		ScoreParallelism: 1,
	}
}

// LoadConfig reads a Config from environment variables named prefix+TAG.
// Unset variables keep their defaults.
func LoadConfig(ctx context.Context, prefix string) (Config, error) {
	return loadConfig(ctx, envconfig.PrefixLookuper(prefix, envconfig.OsLookuper()))
}

func loadConfig(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field range.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.InlierThreshold) || c.InlierThreshold < 0:
		return invalidConfig("inlier threshold must be non-negative, got %v", c.InlierThreshold)
	case !(c.Confidence > 0 && c.Confidence < 1):
		return invalidConfig("confidence must be in (0, 1), got %v", c.Confidence)
	case c.MaxTrials < 1:
		return invalidConfig("max trials must be positive, got %d", c.MaxTrials)
	case c.MinInliers < 0:
		return invalidConfig("min inliers must be non-negative, got %d", c.MinInliers)
	case c.MaxModels < 0:
		return invalidConfig("max models must be non-negative, got %d", c.MaxModels)
	case c.MinModelSupport < 0:
		return invalidConfig("min model support must be non-negative, got %d", c.MinModelSupport)
	case c.Workers < 1:
		return invalidConfig("workers must be positive, got %d", c.Workers)
	case c.ScoreParallelism < 1:
		return invalidConfig("score parallelism must be positive, got %d", c.ScoreParallelism)
	case c.Timeout < 0:
		return invalidConfig("timeout must be non-negative, got %v", c.Timeout)
	case c.RefitRounds < 0:
		return invalidConfig("refit rounds must be non-negative, got %d", c.RefitRounds)
	}
	return nil
}
