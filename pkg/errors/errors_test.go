package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeGeometry, "section %d has zero height", 2)

	if err.Code != ErrCodeGeometry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeGeometry)
	}

	if err.Message != "section 2 has zero height" {
		t.Errorf("Message = %v, want %v", err.Message, "section 2 has zero height")
	}

	expected := "GEOMETRY_ERROR: section 2 has zero height"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("matrix not positive definite")
	err := Wrap(ErrCodeSolverFailure, cause, "load case %q", "storm")

	if err.Code != ErrCodeSolverFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSolverFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeConfiguration, "test"),
			code:     ErrCodeConfiguration,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeConfiguration, "test"),
			code:     ErrCodeGeometry,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeSolverFailure, New(ErrCodeGeometry, "inner"), "outer"),
			code:     ErrCodeSolverFailure,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("run: %w", New(ErrCodeGeometry, "inner")),
			code:     ErrCodeGeometry,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeGeometry,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeGeometry,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeGeometry, "bad section")); got != "bad section" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
