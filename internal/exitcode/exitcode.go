package exitcode

import (
	"context"
	"errors"
	"os"
	"strings"

	sweeperrors "github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates an invalid parameter file, template or sbatch directive
	ValidationError = 3

	// DriftDetected indicates the parameter space changed since submission
	DriftDetected = 4

	// SchedulerError indicates sbatch could not be run or rejected the job
	SchedulerError = 5

	// Interrupted indicates the command was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	switch sweeperrors.CodeOf(err) {
	case sweeperrors.ErrCodeEmptyParameterValues,
		sweeperrors.ErrCodeDuplicateParameterName,
		sweeperrors.ErrCodeInvalidParameter,
		sweeperrors.ErrCodeCountOverflow,
		sweeperrors.ErrCodeIndexOutOfRange,
		sweeperrors.ErrCodeInvalidIndex,
		sweeperrors.ErrCodeUnknownPlaceholder,
		sweeperrors.ErrCodeInvalidOverride,
		sweeperrors.ErrCodeInvalidDirective,
		sweeperrors.ErrCodeFileUnmarshal:
		return ValidationError
	case sweeperrors.ErrCodeInvalidSettings:
		return UsageError
	case sweeperrors.ErrCodeSpaceChanged:
		return DriftDetected
	case sweeperrors.ErrCodeSubmitFailed:
		return SchedulerError
	}

	// cobra reports usage problems as plain errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "unknown shorthand flag") || strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts ") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Validation error (parameter file, template or sbatch options)"
	case DriftDetected:
		return "Parameter space changed since submission"
	case SchedulerError:
		return "Scheduler error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
