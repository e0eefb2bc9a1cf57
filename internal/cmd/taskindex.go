package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// taskIDEnv is set by Slurm for each task of an array job
const taskIDEnv = "SLURM_ARRAY_TASK_ID"

// taskIndex returns the index given by --index, falling back to
// SLURM_ARRAY_TASK_ID. This is the only place the environment variable is read.
func taskIndex(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (int64, error) {
	if cmd.Flags().Changed("index") {
		return cmd.Flags().GetInt64("index")
	}

	raw, ok := lookupEnv(taskIDEnv)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, missingTaskIndexError()
	}

	index, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.NewInvalidIndexError(raw, err)
	}
	return index, nil
}
