package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/ledger"
	"github.com/felixgeelhaar/slurmsweep/internal/metrics"
	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

// recordView prints a ledger record as a summary
type recordView ledger.Record

func (r *recordView) WriteText(w io.Writer, styles ux.Styles) error {
	status := r.Status
	switch r.Status {
	case ledger.StatusSubmitted:
		status = styles.Success.Render(status)
	case ledger.StatusFailed:
		status = styles.Warning.Render(status)
	}

	fields := []ux.Field{
		{Label: "id", Value: r.ID},
		{Label: "status", Value: status},
	}
	if r.JobID != "" {
		fields = append(fields, ux.Field{Label: "job", Value: r.JobID})
	}
	fields = append(fields,
		ux.Field{Label: "tasks", Value: strconv.FormatInt(r.Count, 10)},
		ux.Field{Label: "array", Value: r.Array},
		ux.Field{Label: "param file", Value: r.ParamFile},
		ux.Field{Label: "fingerprint", Value: params.ShortFingerprint(r.Fingerprint)},
		ux.Field{Label: "command", Value: r.Command},
		ux.Field{Label: "script", Value: r.ScriptPath},
	)
	if r.ResumedFrom != "" {
		fields = append(fields, ux.Field{Label: "resumed from", Value: r.ResumedFrom})
	}
	if r.Error != "" {
		fields = append(fields, ux.Field{Label: "error", Value: r.Error})
	}

	return ux.WriteSummary(w, styles, "Submission", fields)
}

type submitOptions struct {
	sweepOptions
	ScriptFile string
	DryRun     bool
	Resume     string
}

func newSubmitCmd(d deps) *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Write the batch script and submit it as an array job",
		Long: `Validate the sweep, write the batch script and submit it with
sbatch --array=<array> <script>. Every submission is recorded in the state
directory; see 'slurmsweep history'.

With --resume the command, setup, directives and array option of an earlier
submission are reused, and the parameter file must still have the recorded
fingerprint. Combine it with --array to resubmit a subset of tasks.`,
		Example: `  # Submit every combination
  slurmsweep submit --paramfile params.toml --command 'python3 run.py --d={dataset}' \
      --setup 'module load python' --sbatch p=mynode --sbatch time=02:00:00

  # Write the script but do not submit
  slurmsweep submit --paramfile params.toml --command 'run {dataset}' --dry-run

  # Rerun tasks 3 and 17 of an earlier submission
  slurmsweep submit --resume 3f2a --array 3,17`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			opts.fromSettings(cmdCtx)
			return runSubmit(cmd, cmdCtx, d, opts)
		},
	}

	addSweepFlags(cmd, &opts.sweepOptions)
	cmd.Flags().StringVar(&opts.ScriptFile, "sbatch-filename", "", "write the batch script here instead of a temporary file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "write the script but do not submit it")
	cmd.Flags().Bool("yes", false, "submit without asking for confirmation")
	cmd.Flags().StringVar(&opts.Resume, "resume", "", "reuse the inputs of an earlier submission (ID or unique prefix)")

	return cmd
}

func runSubmit(cmd *cobra.Command, cmdCtx *CommandContext, d deps, opts submitOptions) error {
	store := ledger.NewStore(cmdCtx.Settings.StateDir)
	logger := cmdCtx.Logger

	var previous *ledger.Record
	if opts.Resume != "" {
		var err error
		previous, err = store.Load(opts.Resume)
		if err != nil {
			return err
		}
		opts.applyRecord(cmd, previous)
		logger.Info("resuming submission", "id", previous.ID, "param_file", opts.ParamFile)
	}

	if opts.ParamFile == "" || opts.Command == "" {
		return errors.New(errors.ErrCodeInvalidSettings, "--paramfile and --command are required").WithSuggestions(
			"Pass both flags, or --resume <id> to reuse an earlier submission",
		)
	}

	s, err := prepareSweep(opts.sweepOptions, logger)
	if err != nil {
		return err
	}
	if previous != nil {
		if err := previous.VerifyFingerprint(s.Space.Fingerprint()); err != nil {
			return err
		}
	}

	script, err := s.script(opts.sweepOptions, d)
	if err != nil {
		return err
	}

	record := ledger.NewRecord()
	record.ParamFile = s.ParamFile
	record.Fingerprint = s.Space.Fingerprint()
	record.Count = s.Space.Count()
	record.Array = s.Array
	record.Command = opts.Command
	record.Setup = opts.Setup
	record.Directives = s.Directives
	if previous != nil {
		record.ResumedFrom = previous.ID
	}

	record.ScriptPath, err = sbatch.WriteScript(script.Render(), opts.ScriptFile)
	if err != nil {
		return err
	}
	if opts.ScriptFile == "" && cmdCtx.Text() {
		fmt.Fprintf(cmdCtx.Out, "Wrote temporary sbatch file to %s\n", record.ScriptPath)
	}

	if opts.DryRun {
		record.Status = ledger.StatusDryRun
		if err := store.Save(record); err != nil {
			return err
		}
		logger.Info("dry run, not submitting", "script", record.ScriptPath, "array", record.Array)
		writeMetrics(cmdCtx, s, record, 0, nil)
		return cmdCtx.Print((*recordView)(record))
	}

	if !cmdCtx.Settings.Yes {
		if confirmer := d.confirmer(); confirmer != nil {
			ok, err := confirmer.Confirm(fmt.Sprintf("Submit %d tasks with --array=%s?", record.Count, record.Array), true)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmdCtx.Err, "Submission cancelled")
				return nil
			}
		}
	}

	submitter := d.newSubmitter(cmdCtx.Settings.SbatchBinary)
	result, err := submitter.Submit(cmd.Context(), sbatch.SubmitRequest{
		Array:      record.Array,
		ScriptPath: record.ScriptPath,
	})
	if err != nil {
		record.MarkFailed(err)
		if saveErr := store.Save(record); saveErr != nil {
			logger.WithError(saveErr).Warn("failed to record failed submission")
		}
		writeMetrics(cmdCtx, s, record, 0, err)
		return err
	}

	record.MarkSubmitted(result.JobID)
	if result.JobID == "" {
		logger.Warn("sbatch output has no job ID", "stdout", result.Stdout)
	}
	logger.Info("submitted array job",
		"job_id", result.JobID,
		"tasks", record.Count,
		"duration", result.Duration)

	if err := store.Save(record); err != nil {
		return err
	}
	writeMetrics(cmdCtx, s, record, result.Duration, nil)
	return cmdCtx.Print((*recordView)(record))
}

// writeMetrics exports the outcome of a submission to the configured
// metrics file. Failures are logged, never returned.
func writeMetrics(cmdCtx *CommandContext, s *sweep, record *ledger.Record, duration time.Duration, submitErr error) {
	path := cmdCtx.Settings.MetricsFile
	if path == "" {
		return
	}

	reg, m := metrics.NewRegistry()
	sub := metrics.Submission{
		Status:     record.Status,
		JobID:      record.JobID,
		Parameters: s.Space.Len(),
		Count:      record.Count,
		Duration:   duration,
		At:         record.UpdatedAt,
	}
	if submitErr != nil {
		sub.ErrorCode = string(errors.CodeOf(submitErr))
		if sub.ErrorCode == "" {
			sub.ErrorCode = "unknown"
		}
	}
	m.RecordSubmission(sub)

	if err := metrics.WriteTextfile(path, reg); err != nil {
		cmdCtx.Logger.WithError(err).Warn("failed to write metrics file")
	}
}

// applyRecord fills the options not set on the command line from an
// earlier submission
func (o *submitOptions) applyRecord(cmd *cobra.Command, r *ledger.Record) {
	flags := cmd.Flags()
	if !flags.Changed("paramfile") {
		o.ParamFile = r.ParamFile
	}
	if !flags.Changed("command") {
		o.Command = r.Command
	}
	if !flags.Changed("setup") {
		o.Setup = r.Setup
	}
	if !flags.Changed("array") {
		o.Array = r.Array
	}
	if !flags.Changed("configfile") {
		o.ConfigFile = ""
	}
	o.Overrides = append(directiveOverrides(r.Directives), o.Overrides...)
}

func directiveOverrides(d sbatch.Directives) []string {
	out := make([]string, len(d))
	for i, directive := range d {
		out[i] = directive.Key + "=" + directive.Value
	}
	return out
}
