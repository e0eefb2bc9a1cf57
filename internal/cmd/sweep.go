package cmd

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/config"
	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/log"
	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/render"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
)

// sweepOptions are the inputs shared by validate, script and submit
type sweepOptions struct {
	ParamFile      string
	Command        string
	Setup          string
	Array          string
	ConfigFile     string
	ConfigExplicit bool
	Overrides      []string
}

func addSweepFlags(cmd *cobra.Command, opts *sweepOptions) {
	cmd.Flags().StringVar(&opts.ParamFile, "paramfile", "", "parameters TOML file")
	cmd.Flags().StringVar(&opts.Command, "command", "", "command to run per task, with {name} placeholders")
	cmd.Flags().StringVar(&opts.Setup, "setup", "", "shell code run in the batch script before the command")
	cmd.Flags().String("array", config.DefaultArray, "sbatch --array option; {count} is the last task index")
	cmd.Flags().String("configfile", config.DefaultConfigFile, "sbatch directives TOML file")
	cmd.Flags().StringArrayVar(&opts.Overrides, "sbatch", nil, "set an #SBATCH option, e.g. --sbatch p=mynode (repeatable)")
}

// fromSettings fills the options resolved through the settings layer
func (o *sweepOptions) fromSettings(cmdCtx *CommandContext) {
	o.Array = cmdCtx.Settings.Array
	o.ConfigFile = cmdCtx.Settings.ConfigFile
	o.ConfigExplicit = cmdCtx.Settings.ConfigFileExplicit
}

// sweep is a validated parameter sweep ready to be written out
type sweep struct {
	ParamFile  string
	Space      *params.Space
	Array      string
	Directives sbatch.Directives
	Unused     []string
}

// prepareSweep loads and validates every input of a sweep. Nothing is
// written.
func prepareSweep(opts sweepOptions, logger *log.Logger) (*sweep, error) {
	paramFile, err := filepath.Abs(opts.ParamFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.ParamFile, err)
	}

	space, err := params.LoadFile(paramFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded parameter space",
		"path", paramFile,
		"parameters", space.Len(),
		"count", space.Count(),
		"fingerprint", params.ShortFingerprint(space.Fingerprint()))

	s := &sweep{ParamFile: paramFile, Space: space}

	if opts.Command != "" {
		if err := render.Validate(opts.Command, space); err != nil {
			return nil, err
		}
		s.Unused = render.Unused(opts.Command, space)
		if len(s.Unused) > 0 {
			logger.Warn("parameters not used by the command", "names", s.Unused)
		}
	}

	s.Array, err = sbatch.ArrayArgument(opts.Array, space.Count())
	if err != nil {
		return nil, fmt.Errorf("--array: %w", err)
	}

	s.Directives, err = loadDirectives(opts, logger)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// loadDirectives reads the directives file and applies --sbatch overrides.
// A missing default file means no directives.
func loadDirectives(opts sweepOptions, logger *log.Logger) (sbatch.Directives, error) {
	var directives sbatch.Directives
	if opts.ConfigFile != "" {
		loaded, err := sbatch.LoadDirectives(opts.ConfigFile)
		switch {
		case err == nil:
			directives = loaded
		case stderrors.Is(err, errors.ErrFileNotFound) && !opts.ConfigExplicit:
			logger.Warn("sbatch config file not found, using no directives", "path", opts.ConfigFile)
		default:
			return nil, err
		}
	}

	overrides, err := sbatch.ParseOverrides(opts.Overrides)
	if err != nil {
		return nil, err
	}
	return directives.Merge(overrides), nil
}

// script builds the batch script for s
func (s *sweep) script(opts sweepOptions, d deps) (sbatch.Script, error) {
	executable, err := d.executable()
	if err != nil {
		return sbatch.Script{}, fmt.Errorf("failed to locate the slurmsweep executable: %w", err)
	}
	workdir, err := d.getwd()
	if err != nil {
		return sbatch.Script{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	return sbatch.Script{
		Directives:  s.Directives,
		Workdir:     workdir,
		Executable:  executable,
		ParamFile:   s.ParamFile,
		Fingerprint: s.Space.Fingerprint(),
		Command:     opts.Command,
		Setup:       opts.Setup,
	}, nil
}
