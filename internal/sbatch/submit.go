package sbatch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"time"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

var jobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// SubmitRequest describes one array job submission
type SubmitRequest struct {
	Array      string
	ScriptPath string
}

// Result is the outcome of a submission
type Result struct {
	JobID    string
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Submitter hands a batch script to the scheduler
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*Result, error)
}

// CommandSubmitter submits by running the sbatch executable
type CommandSubmitter struct {
	Binary string
}

// NewCommandSubmitter creates a submitter for the given sbatch binary
func NewCommandSubmitter(binary string) *CommandSubmitter {
	if binary == "" {
		binary = "sbatch"
	}
	return &CommandSubmitter{Binary: binary}
}

// Args returns the command line arguments for a request
func (s *CommandSubmitter) Args(req SubmitRequest) []string {
	return []string{"--array=" + req.Array, req.ScriptPath}
}

// Submit runs sbatch and reads the job ID from its output. A zero exit
// status with no recognisable job ID is not an error; JobID is then empty.
func (s *CommandSubmitter) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	startTime := time.Now()

	cmd := exec.CommandContext(ctx, s.Binary, s.Args(req)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("submit %s: %w", req.ScriptPath, ctxErr)
	}
	if err != nil {
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		}
		return nil, errors.NewSubmitFailedError(s.Binary, output, err)
	}

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}
	result.JobID, _ = ParseJobID(result.Stdout)

	return result, nil
}

// ParseJobID extracts the job ID from sbatch output
func ParseJobID(output string) (string, bool) {
	m := jobIDPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}
