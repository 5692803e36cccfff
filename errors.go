package sac

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughData matches every *ErrInsufficientData via errors.Is.
	ErrNotEnoughData = errors.New("not enough data points")

	// ErrInvalidConfig is returned when an option or Config field is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidEstimator is returned for a nil estimator or a MinSamples below 1.
	ErrInvalidEstimator = errors.New("invalid estimator")

	// ErrDatasetTooLarge is returned when the dataset has more points than an inlier set can index.
	ErrDatasetTooLarge = errors.New("dataset too large")
)

// ErrInsufficientData indicates a dataset smaller than the estimator's minimal sample.
//
// This is a caller contract violation, reported before any sampling happens.
// It is distinct from "no model found", which is not an error.
type ErrInsufficientData struct {
	Need int
	Have int
}

func (e *ErrInsufficientData) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d points, got %d", e.Need, e.Have)
}

// Is makes errors.Is(err, ErrNotEnoughData) match.
func (e *ErrInsufficientData) Is(target error) bool {
	return target == ErrNotEnoughData
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
