package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/config"
	"github.com/felixgeelhaar/slurmsweep/internal/log"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

type settingsKey struct{}

type loggerKey struct{}

// CommandContext holds what a command needs from the root command:
// the resolved settings, the logger and the output streams.
type CommandContext struct {
	Settings *config.Settings
	Logger   *log.Logger
	Out      io.Writer
	Err      io.Writer
}

// NewCommandContext collects the command context for cmd. Commands call it
// first thing in RunE.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, ok := ctx.Value(settingsKey{}).(*config.Settings)
	if !ok {
		var err error
		settings, err = config.Load("", nil)
		if err != nil {
			return nil, err
		}
	}

	logger, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		logger = log.DefaultLogger()
	}

	return &CommandContext{
		Settings: settings,
		Logger:   logger,
		Out:      cmd.OutOrStdout(),
		Err:      cmd.ErrOrStderr(),
	}, nil
}

// Print writes v to stdout in the configured output format.
func (c *CommandContext) Print(v any) error {
	formatter, err := ux.NewFormatter(c.Settings.Format, &ux.FormatterOptions{
		Writer:  c.Out,
		NoColor: c.Settings.NoColor,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Text reports whether output is human-readable text.
func (c *CommandContext) Text() bool {
	return c.Settings.Format == "text" || c.Settings.Format == ""
}

// Styles returns the styles for human-readable output.
func (c *CommandContext) Styles() ux.Styles {
	return ux.NewStyles(c.Settings.NoColor)
}
