package cmd

import (
	"fmt"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// missingTaskIndexError is returned when neither --index nor
// SLURM_ARRAY_TASK_ID supplies a task index
func missingTaskIndexError() error {
	return errors.New(errors.ErrCodeInvalidIndex, "no task index given").WithSuggestions(
		"Pass the index explicitly: slurmsweep resolve --index 0 ...",
		fmt.Sprintf("Run inside a Slurm array job, which sets %s", taskIDEnv),
	)
}

// invalidAssignmentError is returned for an index argument not of the form name=value
func invalidAssignmentError(arg string) error {
	return errors.New(errors.ErrCodeInvalidParameter, fmt.Sprintf("invalid assignment %q", arg)).WithSuggestions(
		"Give one name=value argument per parameter, e.g. slurmsweep index dataset=B depth=30",
	)
}
