package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrColumnNotFound  = fmt.Errorf("%w: column", ErrNotFound)

	// Ingestion errors
	ErrDatasetParse    = errors.New("dataset could not be parsed")
	ErrUnsupportedFile = fmt.Errorf("%w: unsupported file type", ErrDatasetParse)
	ErrEmptyDataset    = fmt.Errorf("%w: no data rows", ErrDatasetParse)

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNonNumericColumn = errors.New("column is not numeric")

	// Input errors
	ErrValidation = errors.New("validation failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewParseError(filename string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDatasetParse, filename, err)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrDatasetParse)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
