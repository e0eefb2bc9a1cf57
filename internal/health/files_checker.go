package health

import (
	"context"
	stderrors "errors"
	"os"
	"strconv"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/ledger"
	"github.com/felixgeelhaar/slurmsweep/internal/sbatch"
)

// StateDirChecker checks that submission records can be written.
type StateDirChecker struct {
	stateDir string
}

// NewStateDirChecker creates a checker for the state directory.
func NewStateDirChecker(stateDir string) *StateDirChecker {
	return &StateDirChecker{stateDir: stateDir}
}

// Name returns the name of this health check.
func (c *StateDirChecker) Name() string {
	return "state-dir"
}

// Check creates and removes a probe file in the submissions directory.
func (c *StateDirChecker) Check(_ context.Context) *Result {
	dir := ledger.NewStore(c.stateDir).Dir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Unhealthy("cannot create state directory").
			WithDetail("path", dir).
			WithDetail("error", err.Error())
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return Unhealthy("state directory is not writable").
			WithDetail("path", dir).
			WithDetail("error", err.Error())
	}
	probe.Close()
	os.Remove(probe.Name())

	return Healthy("state directory is writable").WithDetail("path", dir)
}

// DirectivesChecker checks that the sbatch directives file parses.
type DirectivesChecker struct {
	path     string
	explicit bool
}

// NewDirectivesChecker creates a checker for the directives file. A missing
// file is degraded unless it was named explicitly.
func NewDirectivesChecker(path string, explicit bool) *DirectivesChecker {
	return &DirectivesChecker{path: path, explicit: explicit}
}

// Name returns the name of this health check.
func (c *DirectivesChecker) Name() string {
	return "sbatch-config"
}

// Check loads the directives file.
func (c *DirectivesChecker) Check(_ context.Context) *Result {
	directives, err := sbatch.LoadDirectives(c.path)
	switch {
	case err == nil:
		return Healthy("sbatch config is valid").
			WithDetail("path", c.path).
			WithDetail("directives", strconv.Itoa(len(directives)))
	case stderrors.Is(err, errors.ErrFileNotFound) && !c.explicit:
		return Degraded("no sbatch config file, submissions use no directives").
			WithDetail("path", c.path)
	default:
		return Unhealthy("sbatch config is invalid").
			WithDetail("path", c.path).
			WithDetail("error", err.Error())
	}
}
