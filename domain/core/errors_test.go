package core

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorWrappingChains tests that wrapped variants match their sentinels
func TestErrorWrappingChains(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"dataset not found", ErrDatasetNotFound, ErrNotFound},
		{"session not found", ErrSessionNotFound, ErrNotFound},
		{"column not found", ErrColumnNotFound, ErrNotFound},
		{"unsupported file", ErrUnsupportedFile, ErrDatasetParse},
		{"empty dataset", ErrEmptyDataset, ErrDatasetParse},
	}

	for _, test := range tests {
		if !errors.Is(test.err, test.sentinel) {
			t.Errorf("%s: expected errors.Is to match the sentinel", test.name)
		}
	}
}

// TestErrorCheckers tests the Is* helpers against constructed errors
func TestErrorCheckers(t *testing.T) {
	notFound := NewNotFoundError("dataset", "abc-123")
	if !IsNotFoundError(notFound) {
		t.Error("Expected NewNotFoundError to satisfy IsNotFoundError")
	}
	if IsParseError(notFound) {
		t.Error("Did not expect a not-found error to satisfy IsParseError")
	}

	parse := NewParseError("broken.csv", fmt.Errorf("bad header"))
	if !IsParseError(parse) {
		t.Error("Expected NewParseError to satisfy IsParseError")
	}

	insufficient := NewInsufficientDataError("need at least two values")
	if !IsInsufficientDataError(insufficient) {
		t.Error("Expected NewInsufficientDataError to satisfy IsInsufficientDataError")
	}

	validation := NewValidationError("bins", "must be positive")
	if !IsValidationError(validation) {
		t.Error("Expected NewValidationError to satisfy IsValidationError")
	}
	if IsInsufficientDataError(validation) {
		t.Error("Did not expect a validation error to satisfy IsInsufficientDataError")
	}
}

// TestErrorCheckersThroughWrapping tests matching through fmt.Errorf chains
func TestErrorCheckersThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading dashboard: %w", fmt.Errorf("%w: revenue", ErrColumnNotFound))
	if !IsNotFoundError(wrapped) {
		t.Error("Expected IsNotFoundError to match through two wrap levels")
	}

	if IsNotFoundError(errors.New("unrelated")) {
		t.Error("Did not expect an unrelated error to satisfy IsNotFoundError")
	}
}

// TestErrorMessages tests that constructors keep context in the message
func TestErrorMessages(t *testing.T) {
	err := NewValidationError("kind", `unknown chart kind "donut"`)
	want := `validation failed for kind: unknown chart kind "donut"`
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	nf := NewNotFoundError("dataset", "abc")
	if nf.Error() != "resource not found: dataset with id abc" {
		t.Errorf("Unexpected not-found message: %q", nf.Error())
	}
}
