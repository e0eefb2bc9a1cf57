package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/render"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

type resolveReport struct {
	Index      int64             `json:"index" yaml:"index"`
	Assignment params.Assignment `json:"assignment" yaml:"assignment"`
	Command    string            `json:"command,omitempty" yaml:"command,omitempty"`
}

// WriteText prints the rendered command, or one name=value line per
// parameter when no command was given.
func (r resolveReport) WriteText(w io.Writer, _ ux.Styles) error {
	if r.Command != "" {
		_, err := fmt.Fprintln(w, r.Command)
		return err
	}
	for _, b := range r.Assignment {
		if _, err := fmt.Fprintf(w, "%s=%s\n", b.Name, b.Value); err != nil {
			return err
		}
	}
	return nil
}

func newResolveCmd(d deps) *cobra.Command {
	var (
		paramFile   string
		command     string
		fingerprint string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one task index to its parameter combination",
		Long: `Resolve a task index to its combination of parameter values and print the
command with every {name} placeholder substituted.

The index comes from --index, or from SLURM_ARRAY_TASK_ID when the flag is
not given. With --fingerprint the parameter file must be unchanged since
the fingerprint was taken.`,
		Example: `  # Command for task 5
  slurmsweep resolve --paramfile params.toml --index 5 --command 'run --d={dataset} --k={depth}'

  # Combination only, as JSON
  slurmsweep resolve --paramfile params.toml --index 5 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			space, err := params.LoadFile(paramFile)
			if err != nil {
				return err
			}
			if fingerprint != "" && fingerprint != space.Fingerprint() {
				return errors.NewSpaceChangedError(paramFile, fingerprint, space.Fingerprint())
			}

			index, err := taskIndex(cmd, d.lookupEnv)
			if err != nil {
				return err
			}

			assignment, err := space.Resolve(index)
			if err != nil {
				return err
			}

			report := resolveReport{Index: index, Assignment: assignment}
			if command != "" {
				report.Command, err = render.Render(command, assignment)
				if err != nil {
					return err
				}
			}

			cmdCtx.Logger.Debug("resolved task", "index", index, "assignment", assignment.Map())
			return cmdCtx.Print(report)
		},
	}

	cmd.Flags().StringVar(&paramFile, "paramfile", "", "parameters TOML file")
	cmd.Flags().StringVar(&command, "command", "", "command template with {name} placeholders")
	cmd.Flags().Int64("index", 0, "task index (default: $SLURM_ARRAY_TASK_ID)")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "expected parameter space fingerprint")
	_ = cmd.MarkFlagRequired("paramfile")

	return cmd
}
