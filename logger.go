package sac

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with consensus-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON lines at level and above to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs key=value lines at level and above to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards every record. It is the engine default.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRound adds a multi-consensus round field to the logger.
func (l *Logger) WithRound(round int) *Logger {
	return &Logger{
		Logger: l.Logger.With("round", round),
	}
}

// LogProgress logs the state of a running search.
func (l *Logger) LogProgress(ctx context.Context, trials, bound, support int) {
	l.DebugContext(ctx, "consensus search progress",
		"trials", trials,
		"bound", bound,
		"best_support", support,
	)
}

// LogRun logs a finished single-model search.
func (l *Logger) LogRun(ctx context.Context, points int, r Report, support int, found bool) {
	if !found {
		l.InfoContext(ctx, "no consensus found",
			"points", points,
			"trials", r.Trials,
			"degenerate", r.Degenerate,
			"stop", r.Stop.String(),
		)
		return
	}
	l.DebugContext(ctx, "consensus found",
		"points", points,
		"support", support,
		"trials", r.Trials,
		"best_trial", r.BestTrial,
		"bound", r.Bound,
		"degenerate", r.Degenerate,
		"exhaustive", r.Exhaustive,
		"stop", r.Stop.String(),
		"elapsed", r.Elapsed,
	)
}

// LogRound logs one multi-consensus round. Use WithRound to tag it.
func (l *Logger) LogRound(ctx context.Context, pool, support int, accepted bool) {
	l.DebugContext(ctx, "multi-consensus round",
		"pool", pool,
		"support", support,
		"accepted", accepted,
	)
}

// LogMultiRun logs a finished multi-model search.
func (l *Logger) LogMultiRun(ctx context.Context, points, models, rounds int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "multi-consensus failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "multi-consensus completed",
		"points", points,
		"models", models,
		"rounds", rounds,
	)
}
