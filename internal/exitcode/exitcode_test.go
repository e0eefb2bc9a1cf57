package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sweeperrors "github.com/felixgeelhaar/slurmsweep/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ValidationError", ValidationError, 3},
		{"DriftDetected", DriftDetected, 4},
		{"SchedulerError", SchedulerError, 5},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "empty parameter values",
			err:      sweeperrors.NewEmptyParameterValuesError("depth"),
			expected: ValidationError,
		},
		{
			name:     "unknown placeholder wrapped",
			err:      fmt.Errorf("validate: %w", sweeperrors.NewUnknownPlaceholderError([]string{"x"}, nil)),
			expected: ValidationError,
		},
		{
			name:     "index out of range",
			err:      sweeperrors.NewIndexOutOfRangeError(10, 6),
			expected: ValidationError,
		},
		{
			name:     "space changed",
			err:      sweeperrors.NewSpaceChangedError("params.toml", "a", "b"),
			expected: DriftDetected,
		},
		{
			name:     "sbatch failure",
			err:      sweeperrors.NewSubmitFailedError("sbatch", "invalid partition", errors.New("exit status 1")),
			expected: SchedulerError,
		},
		{
			name:     "cancelled context",
			err:      fmt.Errorf("submit: %w", context.Canceled),
			expected: Interrupted,
		},
		{
			name:     "usage error - unknown flag",
			err:      errors.New("unknown flag: --foo"),
			expected: UsageError,
		},
		{
			name:     "usage error - required flag",
			err:      errors.New(`required flag(s) "paramfile" not set`),
			expected: UsageError,
		},
		{
			name:     "usage error - arg count",
			err:      errors.New("accepts 1 arg(s), received 0"),
			expected: UsageError,
		},
		{
			name:     "invalid settings",
			err:      sweeperrors.New(sweeperrors.ErrCodeInvalidSettings, "invalid settings"),
			expected: UsageError,
		},
		{
			name:     "missing file is a general error",
			err:      sweeperrors.NewFileNotFoundError("params.toml"),
			expected: GeneralError,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{DriftDetected, "Parameter space changed since submission"},
		{SchedulerError, "Scheduler error"},
		{Interrupted, "Interrupted"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GetExitCodeDescription(tt.code); got != tt.want {
				t.Errorf("GetExitCodeDescription(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
