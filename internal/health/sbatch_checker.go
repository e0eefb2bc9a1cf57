package health

import (
	"context"
	"os/exec"
	"strings"
)

// SbatchChecker checks that the sbatch executable can be run.
type SbatchChecker struct {
	binary string
}

// NewSbatchChecker creates a checker for the given sbatch binary name or path.
func NewSbatchChecker(binary string) *SbatchChecker {
	if binary == "" {
		binary = "sbatch"
	}
	return &SbatchChecker{binary: binary}
}

// Name returns the name of this health check.
func (c *SbatchChecker) Name() string {
	return "sbatch-binary"
}

// Check looks sbatch up on PATH and runs `sbatch --version`.
// A binary that exists but fails to report its version is degraded.
func (c *SbatchChecker) Check(ctx context.Context) *Result {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return Unhealthy(c.binary+" not found").
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Run on a Slurm login node or set sbatch_binary")
	}

	output, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return Degraded("sbatch found but --version failed").
			WithDetail("path", path).
			WithDetail("error", err.Error()).
			WithDetail("output", strings.TrimSpace(string(output)))
	}

	return Healthy("sbatch is available").
		WithDetail("path", path).
		WithDetail("version", strings.TrimSpace(string(output)))
}
