package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Schema errors
	ErrMissingColumn     = errors.New("column not found in schema")
	ErrNonNumeric        = errors.New("column is not numeric")
	ErrGroupingNotBinary = errors.New("grouping field must have exactly two observed values")

	// Sample errors
	ErrInsufficientData   = errors.New("insufficient data for analysis")
	ErrDegenerateVariance = errors.New("zero variance in both samples")

	// Input errors
	ErrEmptyDataset = errors.New("dataset has no records")
)

// MinSampleSize is the smallest sample a two-sample test will accept.
const MinSampleSize = 2

// Error constructors with context
func NewMissingColumnError(field string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, field)
}

func NewNonNumericError(field string) error {
	return fmt.Errorf("%w: %q", ErrNonNumeric, field)
}

func NewInsufficientDataError(label string, n int) error {
	return fmt.Errorf("%w: sample %s has %d usable observations, need at least %d",
		ErrInsufficientData, label, n, MinSampleSize)
}

func NewGroupingError(field string, observed int) error {
	return fmt.Errorf("%w: %q has %d", ErrGroupingNotBinary, field, observed)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrNonNumeric) ||
		errors.Is(err, ErrGroupingNotBinary)
}

// IsSkippable reports whether err only invalidates a single field comparison.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrNonNumeric)
}
