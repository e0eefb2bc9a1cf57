package sbatch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// fakeSbatch writes an executable shell script standing in for sbatch. The
// script records its arguments in an "args" file next to it.
func fakeSbatch(t *testing.T, body string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake sbatch needs a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "sbatch")
	script := "#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args\"\n" + body
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path, filepath.Join(dir, "args")
}

func TestCommandSubmitterSubmit(t *testing.T) {
	binary, argsFile := fakeSbatch(t, "echo 'Submitted batch job 4242'\n")

	s := NewCommandSubmitter(binary)
	result, err := s.Submit(context.Background(), SubmitRequest{Array: "0-5", ScriptPath: "/tmp/sweep.sh"})
	require.NoError(t, err)

	assert.Equal(t, "4242", result.JobID)
	assert.Contains(t, result.Stdout, "Submitted batch job 4242")

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--array=0-5 /tmp/sweep.sh", strings.TrimSpace(string(args)))
}

func TestCommandSubmitterUnrecognisedOutput(t *testing.T) {
	binary, _ := fakeSbatch(t, "echo 'queued'\n")

	result, err := NewCommandSubmitter(binary).Submit(context.Background(), SubmitRequest{Array: "0-1", ScriptPath: "x.sh"})
	require.NoError(t, err)
	assert.Empty(t, result.JobID)
}

func TestCommandSubmitterFailure(t *testing.T) {
	binary, _ := fakeSbatch(t, "echo 'sbatch: error: invalid partition specified' >&2\nexit 1\n")

	_, err := NewCommandSubmitter(binary).Submit(context.Background(), SubmitRequest{Array: "0-1", ScriptPath: "x.sh"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSubmitFailed)
	assert.Contains(t, err.Error(), "invalid partition specified")
}

func TestCommandSubmitterMissingBinary(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "no-such-sbatch")

	_, err := NewCommandSubmitter(binary).Submit(context.Background(), SubmitRequest{Array: "0-1", ScriptPath: "x.sh"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSubmitFailed)
}

func TestCommandSubmitterCancelled(t *testing.T) {
	binary, _ := fakeSbatch(t, "echo 'Submitted batch job 1'\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCommandSubmitter(binary).Submit(ctx, SubmitRequest{Array: "0-1", ScriptPath: "x.sh"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCommandSubmitterDefaultBinary(t *testing.T) {
	s := NewCommandSubmitter("")
	assert.Equal(t, "sbatch", s.Binary)
	assert.Equal(t, []string{"--array=0-9", "job.sh"}, s.Args(SubmitRequest{Array: "0-9", ScriptPath: "job.sh"}))
}

func TestParseJobID(t *testing.T) {
	id, ok := ParseJobID("Submitted batch job 123456\n")
	assert.True(t, ok)
	assert.Equal(t, "123456", id)

	_, ok = ParseJobID("sbatch: error")
	assert.False(t, ok)
}
