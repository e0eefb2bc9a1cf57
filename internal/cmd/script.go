package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
)

func newScriptCmd(d deps) *cobra.Command {
	var (
		opts   sweepOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the batch script for a sweep",
		Long: `Generate the sbatch script for a sweep without submitting it. The script is
printed to stdout, or written to --output.`,
		Example: `  slurmsweep script --paramfile params.toml --command 'python3 run.py --d={dataset}' --sbatch p=mynode`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts.fromSettings(cmdCtx)

			s, err := prepareSweep(opts, cmdCtx.Logger)
			if err != nil {
				return err
			}
			script, err := s.script(opts, d)
			if err != nil {
				return err
			}
			contents := script.Render()

			if output == "" {
				_, err = fmt.Fprint(cmdCtx.Out, contents)
				return err
			}

			path, err := sbatch.WriteScript(contents, output)
			if err != nil {
				return err
			}
			cmdCtx.Logger.Info("wrote batch script", "path", path, "array", s.Array)
			_, err = fmt.Fprintf(cmdCtx.Out, "Wrote sbatch file to %s (submit with: sbatch --array=%s %s)\n",
				path, s.Array, sbatch.Quote(path))
			return err
		},
	}

	addSweepFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the script to this file")
	_ = cmd.MarkFlagRequired("paramfile")
	_ = cmd.MarkFlagRequired("command")

	return cmd
}
