package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/config"
	"github.com/felixgeelhaar/slurmsweep/internal/health"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

type doctorReport struct {
	Status health.Status    `json:"status" yaml:"status"`
	Checks []*health.Result `json:"checks" yaml:"checks"`
}

func (r doctorReport) WriteText(w io.Writer, styles ux.Styles) error {
	fields := make([]ux.Field, 0, len(r.Checks))
	for _, c := range r.Checks {
		value := statusStyle(styles, c.Status).Render(c.Status.String()) + "  " + c.Message
		if details := formatDetails(c.Details); details != "" {
			value += styles.Muted.Render("  (" + details + ")")
		}
		fields = append(fields, ux.Field{Label: c.Name, Value: value})
	}
	return ux.WriteSummary(w, styles, "Environment: "+r.Status.String(), fields)
}

func statusStyle(styles ux.Styles, s health.Status) lipgloss.Style {
	switch s {
	case health.StatusHealthy:
		return styles.Success
	case health.StatusDegraded:
		return styles.Warning
	default:
		return styles.Warning.Bold(true)
	}
}

func formatDetails(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		if k == "suggestion" || k == "error" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + details[k]
	}
	return strings.Join(parts, " ")
}

func newDoctorCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that sweeps can be submitted from this environment",
		Long: `Check that sbatch can be run, the state directory is writable and the sbatch
config file parses. Exits non-zero when a check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			manager := health.NewManager()
			manager.AddChecker(d.sbatchChecker(cmdCtx.Settings.SbatchBinary))
			manager.AddChecker(health.NewStateDirChecker(cmdCtx.Settings.StateDir))
			manager.AddChecker(health.NewDirectivesChecker(cmdCtx.Settings.ConfigFile, cmdCtx.Settings.ConfigFileExplicit))

			results := manager.Check(cmd.Context())
			report := doctorReport{Status: health.OverallStatus(results), Checks: results}
			for _, r := range results {
				cmdCtx.Logger.Debug("health check", "name", r.Name, "status", r.Status, "latency", r.Latency)
			}

			if err := cmdCtx.Print(report); err != nil {
				return err
			}
			if report.Status == health.StatusUnhealthy {
				return fmt.Errorf("environment check failed")
			}
			return nil
		},
	}

	cmd.Flags().String("configfile", config.DefaultConfigFile, "sbatch directives TOML file")

	return cmd
}
