package domain

import (
	"errors"
	"fmt"
)

// ErrCompilationFailure is matched by every error returned from Compile.
var ErrCompilationFailure = errors.New("compilation failure")

// CompileError records the candidate whose compilation failed.
type CompileError struct {
	Candidate string
	Err       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Candidate, e.Err)
}

// Unwrap exposes both the sentinel and the underlying process error.
func (e *CompileError) Unwrap() []error {
	return []error{ErrCompilationFailure, e.Err}
}

// setupError marks failures that happen before any compiler runs.
func setupError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCompilationFailure, step, err)
}
