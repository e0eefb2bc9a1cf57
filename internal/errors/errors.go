package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Parameter space errors (PARAM-001 to PARAM-099)
	ErrCodeEmptyParameterValues   ErrorCode = "PARAM-001"
	ErrCodeDuplicateParameterName ErrorCode = "PARAM-002"
	ErrCodeInvalidParameter       ErrorCode = "PARAM-003"
	ErrCodeCountOverflow          ErrorCode = "PARAM-004"

	// Resolver errors (INDEX-001 to INDEX-099)
	ErrCodeIndexOutOfRange ErrorCode = "INDEX-001"
	ErrCodeInvalidIndex    ErrorCode = "INDEX-002"

	// Template errors (TMPL-001 to TMPL-099)
	ErrCodeUnknownPlaceholder ErrorCode = "TMPL-001"

	// Scheduler errors (SBATCH-001 to SBATCH-099)
	ErrCodeInvalidOverride  ErrorCode = "SBATCH-001"
	ErrCodeInvalidDirective ErrorCode = "SBATCH-002"
	ErrCodeSubmitFailed     ErrorCode = "SBATCH-003"

	// Ledger errors (LEDGER-001 to LEDGER-099)
	ErrCodeSpaceChanged       ErrorCode = "LEDGER-001"
	ErrCodeSubmissionNotFound ErrorCode = "LEDGER-002"

	// Configuration errors (CFG-001 to CFG-099)
	ErrCodeInvalidSettings ErrorCode = "CFG-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
)

// Sentinels for errors.Is. Matching is by code, so a wrapped or decorated
// error still matches its sentinel.
var (
	ErrEmptyParameterValues   = New(ErrCodeEmptyParameterValues, "parameter has no values")
	ErrDuplicateParameterName = New(ErrCodeDuplicateParameterName, "duplicate parameter name")
	ErrInvalidParameter       = New(ErrCodeInvalidParameter, "invalid parameter")
	ErrCountOverflow          = New(ErrCodeCountOverflow, "combination count overflows int64")
	ErrIndexOutOfRange        = New(ErrCodeIndexOutOfRange, "task index out of range")
	ErrInvalidIndex           = New(ErrCodeInvalidIndex, "invalid task index")
	ErrUnknownPlaceholder     = New(ErrCodeUnknownPlaceholder, "unknown placeholder")
	ErrInvalidOverride        = New(ErrCodeInvalidOverride, "invalid sbatch override")
	ErrInvalidDirective       = New(ErrCodeInvalidDirective, "invalid sbatch directive")
	ErrSubmitFailed           = New(ErrCodeSubmitFailed, "sbatch submission failed")
	ErrSpaceChanged           = New(ErrCodeSpaceChanged, "parameter space changed")
	ErrSubmissionNotFound     = New(ErrCodeSubmissionNotFound, "submission not found")
	ErrInvalidSettings        = New(ErrCodeInvalidSettings, "invalid settings")
	ErrFileNotFound           = New(ErrCodeFileNotFound, "file not found")
)

// SweepError represents an enhanced error with code, suggestions, and documentation
type SweepError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *SweepError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SweepError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a SweepError with the same code.
func (e *SweepError) Is(target error) bool {
	t, ok := target.(*SweepError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new SweepError
func New(code ErrorCode, message string) *SweepError {
	return &SweepError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new SweepError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *SweepError {
	return &SweepError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SweepError) WithSuggestion(suggestion string) *SweepError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SweepError) WithSuggestions(suggestions ...string) *SweepError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *SweepError) WithDocs(url string) *SweepError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the outermost SweepError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*SweepError); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors for frequently used errors

// NewEmptyParameterValuesError creates an error for a parameter declared with no values
func NewEmptyParameterValuesError(name string) *SweepError {
	return New(ErrCodeEmptyParameterValues, fmt.Sprintf("parameter %q has no values", name)).
		WithSuggestion("Give every parameter at least one value, e.g. name = [\"a\"]").
		WithSuggestion("Remove the parameter from the parameter file if it is unused")
}

// NewDuplicateParameterNameError creates an error for a repeated parameter name
func NewDuplicateParameterNameError(name string) *SweepError {
	return New(ErrCodeDuplicateParameterName, fmt.Sprintf("parameter %q is declared more than once", name)).
		WithSuggestion("Rename or merge the duplicate declarations")
}

// NewInvalidParameterError creates an error for a malformed parameter entry
func NewInvalidParameterError(name string, details string) *SweepError {
	return New(ErrCodeInvalidParameter, fmt.Sprintf("invalid parameter %q: %s", name, details)).
		WithSuggestion("Each entry must have the form name = [value, ...] with scalar values").
		WithSuggestion("Nested tables and arrays of arrays are not supported")
}

// NewCountOverflowError creates an error for a parameter space too large to index
func NewCountOverflowError(name string) *SweepError {
	return New(ErrCodeCountOverflow, fmt.Sprintf("combination count overflows int64 at parameter %q", name)).
		WithSuggestion("Split the sweep into several parameter files")
}

// NewIndexOutOfRangeError creates an error for a task index outside [0, count)
func NewIndexOutOfRangeError(index, count int64) *SweepError {
	return New(ErrCodeIndexOutOfRange, fmt.Sprintf("task index %d out of range [0, %d)", index, count)).
		WithSuggestion("Derive the --array range from 'slurmsweep count'").
		WithSuggestion("Check that the parameter file did not change after submission")
}

// NewInvalidIndexError creates an error for a task index that is not an integer
func NewInvalidIndexError(raw string, cause error) *SweepError {
	return Wrap(ErrCodeInvalidIndex, fmt.Sprintf("task index %q is not a non-negative integer", raw), cause).
		WithSuggestion("Pass --index explicitly or run inside a Slurm array task (SLURM_ARRAY_TASK_ID)")
}

// NewUnknownPlaceholderError creates an error for template placeholders with no parameter
func NewUnknownPlaceholderError(names []string, known []string) *SweepError {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "{" + n + "}"
	}
	err := New(ErrCodeUnknownPlaceholder, fmt.Sprintf("unknown placeholder %s", strings.Join(quoted, ", ")))
	if len(known) > 0 {
		err.WithSuggestion(fmt.Sprintf("Known parameters: %s", strings.Join(known, ", ")))
	} else {
		err.WithSuggestion("The parameter file declares no parameters")
	}
	return err.WithSuggestion("Check the command template for typos")
}

// NewInvalidOverrideError creates an error for a --sbatch value not of the form k=v
func NewInvalidOverrideError(override string) *SweepError {
	return New(ErrCodeInvalidOverride, fmt.Sprintf("--sbatch option not of the form key=value: %q", override)).
		WithSuggestion("Use for example --sbatch p=mynode or --sbatch time=01:00:00")
}

// NewInvalidDirectiveError creates an error for an unusable sbatch config entry
func NewInvalidDirectiveError(key string, details string) *SweepError {
	return New(ErrCodeInvalidDirective, fmt.Sprintf("invalid sbatch directive %q: %s", key, details)).
		WithSuggestion("The sbatch config file must map option names to scalar values")
}

// NewSubmitFailedError creates an error for a failed sbatch invocation
func NewSubmitFailedError(binary string, output string, cause error) *SweepError {
	msg := fmt.Sprintf("%s failed", binary)
	if out := strings.TrimSpace(output); out != "" {
		msg += ": " + out
	}
	return Wrap(ErrCodeSubmitFailed, msg, cause).
		WithSuggestion(fmt.Sprintf("Run '%s --version' to verify the scheduler is available", binary)).
		WithSuggestion("Inspect the generated script with 'slurmsweep script'")
}

// NewSpaceChangedError creates a drift error for a parameter file whose fingerprint changed
func NewSpaceChangedError(path string, expected string, actual string) *SweepError {
	return New(ErrCodeSpaceChanged, fmt.Sprintf("parameter space in %s changed since submission", path)).
		WithSuggestion("Restore the parameter file used for the original submission").
		WithSuggestion("Submit the changed parameter file as a new sweep instead of resuming").
		WithSuggestion(fmt.Sprintf("Expected fingerprint: %s, got: %s", expected, actual))
}

// NewSubmissionNotFoundError creates an error for an unknown ledger entry
func NewSubmissionNotFoundError(id string) *SweepError {
	return New(ErrCodeSubmissionNotFound, fmt.Sprintf("submission %q not found", id)).
		WithSuggestion("List recorded submissions: slurmsweep history list")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *SweepError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *SweepError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
