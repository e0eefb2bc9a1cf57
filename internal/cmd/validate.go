package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/render"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

type parameterSummary struct {
	Name   string `json:"name" yaml:"name"`
	Values int    `json:"values" yaml:"values"`
}

type validateReport struct {
	ParamFile    string             `json:"param_file" yaml:"param_file"`
	Count        int64              `json:"count" yaml:"count"`
	Fingerprint  string             `json:"fingerprint" yaml:"fingerprint"`
	Parameters   []parameterSummary `json:"parameters" yaml:"parameters"`
	Placeholders []string           `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
	Unused       []string           `json:"unused,omitempty" yaml:"unused,omitempty"`
	Array        string             `json:"array" yaml:"array"`
	Directives   sbatch.Directives  `json:"directives,omitempty" yaml:"directives,omitempty"`
}

func (r validateReport) WriteText(w io.Writer, styles ux.Styles) error {
	shape := make([]string, len(r.Parameters))
	for i, p := range r.Parameters {
		shape[i] = fmt.Sprintf("%s(%d)", p.Name, p.Values)
	}

	fields := []ux.Field{
		{Label: "param file", Value: r.ParamFile},
		{Label: "parameters", Value: strings.Join(shape, " x ")},
		{Label: "combinations", Value: strconv.FormatInt(r.Count, 10)},
		{Label: "fingerprint", Value: params.ShortFingerprint(r.Fingerprint)},
		{Label: "array", Value: r.Array},
	}
	if len(r.Placeholders) > 0 {
		fields = append(fields, ux.Field{Label: "placeholders", Value: strings.Join(r.Placeholders, ", ")})
	}
	if len(r.Unused) > 0 {
		fields = append(fields, ux.Field{Label: "unused", Value: styles.Warning.Render(strings.Join(r.Unused, ", "))})
	}
	for _, h := range r.Directives.Headers() {
		fields = append(fields, ux.Field{Label: "directive", Value: h})
	}

	return ux.WriteSummary(w, styles, "Sweep is valid", fields)
}

func newValidateCmd() *cobra.Command {
	var opts sweepOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a sweep without writing or submitting anything",
		Long: `Check the parameter file, the command template, the --array option and the
sbatch directives. Every problem that would stop submit is reported here.`,
		Example: `  slurmsweep validate --paramfile params.toml --command 'run --d={dataset}'`,
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

			report := validateReport{
				ParamFile:   s.ParamFile,
				Count:       s.Space.Count(),
				Fingerprint: s.Space.Fingerprint(),
				Unused:      s.Unused,
				Array:       s.Array,
				Directives:  s.Directives,
			}
			for _, p := range s.Space.Parameters() {
				report.Parameters = append(report.Parameters, parameterSummary{Name: p.Name, Values: len(p.Values)})
			}
			if opts.Command != "" {
				report.Placeholders = render.Placeholders(opts.Command)
			}

			return cmdCtx.Print(report)
		},
	}

	addSweepFlags(cmd, &opts)
	_ = cmd.MarkFlagRequired("paramfile")

	return cmd
}
