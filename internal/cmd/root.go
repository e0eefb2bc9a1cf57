package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/config"
	"github.com/felixgeelhaar/slurmsweep/internal/health"
	"github.com/felixgeelhaar/slurmsweep/internal/log"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

// deps are the process-level collaborators the commands use.
type deps struct {
	newSubmitter  func(binary string) sbatch.Submitter
	sbatchChecker func(binary string) health.Checker
	confirmer     func() ux.Confirmer
	lookupEnv     func(key string) (string, bool)
	executable    func() (string, error)
	getwd         func() (string, error)
}

func defaultDeps() deps {
	return deps{
		newSubmitter: func(binary string) sbatch.Submitter {
			return sbatch.NewCommandSubmitter(binary)
		},
		sbatchChecker: func(binary string) health.Checker {
			return health.NewSbatchChecker(binary)
		},
		confirmer: func() ux.Confirmer {
			if ux.IsInteractive(os.Stdin) {
				return ux.HuhConfirmer{}
			}
			return nil
		},
		lookupEnv:  os.LookupEnv,
		executable: os.Executable,
		getwd:      os.Getwd,
	}
}

// NewRootCmd creates the slurmsweep command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slurmsweep",
		Short: "Run a parameter sweep as a Slurm array job",
		Long: `slurmsweep turns a TOML file of experiment parameters into a Slurm array job.

Every array task index maps to exactly one combination of parameter values.
The generated batch script calls back into slurmsweep to resolve the
combination for SLURM_ARRAY_TASK_ID and run the rendered command.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == cobra.ShellCompRequestCmd {
				return nil
			}

			settingsFile, _ := cmd.Flags().GetString("config")
			settings, err := config.Load(settingsFile, cmd.Flags())
			if err != nil {
				return err
			}

			logConfig, err := settings.LogConfig()
			if err != nil {
				return err
			}
			logConfig.Output = log.NewOutput(cmd.ErrOrStderr())
			logger := log.New(logConfig)
			log.SetDefaultLogger(logger)

			if settings.SettingsFile != "" {
				logger.Debug("loaded settings file", "path", settings.SettingsFile)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, settingsKey{}, settings)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "settings file (default: ./slurmsweep.yaml when present)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")
	flags.StringP("format", "f", config.DefaultFormat, "output format (text, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose logging")
	flags.Bool("no-color", false, "disable colored output")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newResolveCmd(d))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newScriptCmd(d))
	rootCmd.AddCommand(newSubmitCmd(d))
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDoctorCmd(d))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with a context that cancels
// in-flight submissions.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
