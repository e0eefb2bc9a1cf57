package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that carry none.
// Errors that already contain a SweepError are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var sweepErr *errors.SweepError
	if stderrors.As(err, &sweepErr) {
		return err
	}
	var withSuggestion *ErrorWithSuggestion
	if stderrors.As(err, &withSuggestion) {
		return err
	}

	errMsg := err.Error()

	// sbatch missing from PATH
	if strings.Contains(errMsg, "executable file not found") {
		return NewErrorWithSuggestion(err,
			"Run on a Slurm login node, or point sbatch_binary (SLURMSWEEP_SBATCH_BINARY) at the sbatch executable")
	}

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check that the state directory and script destination are writable and sbatch is executable")
	}

	if strings.Contains(errMsg, "no such file or directory") {
		return NewErrorWithSuggestion(err,
			"Check the path; relative paths are resolved from the current directory")
	}

	if strings.Contains(errMsg, "context canceled") || strings.Contains(errMsg, "deadline exceeded") {
		return NewErrorWithSuggestion(err,
			"The operation was interrupted; run 'slurmsweep history list' to see whether a submission was recorded")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
