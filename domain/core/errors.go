package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors: the table cannot be processed at all
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyDataset   = errors.New("dataset is empty")
	ErrNullIdentity   = errors.New("null values in critical columns")

	// Query errors
	ErrNoAcceptedQuotes = errors.New("no accepted quotes found")
	ErrNoDataset        = errors.New("no dataset loaded")
	ErrInvalidRange     = errors.New("invalid discount range")

	// Adapter errors
	ErrEstimatorUnavailable = errors.New("acceptance estimator unavailable")
	ErrNoWorkingModel       = errors.New("no working model found")

	// I/O errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Error constructors with context
func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %v", ErrMissingColumns, columns)
}

func NewNullIdentityError(column string, count int) error {
	return fmt.Errorf("%w: %d null values in %s", ErrNullIdentity, count, column)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrNullIdentity)
}

func IsEmptyResultError(err error) bool {
	return errors.Is(err, ErrNoAcceptedQuotes) ||
		errors.Is(err, ErrNoDataset)
}
