package sbatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
	"github.com/felixgeelhaar/slurmsweep/internal/render"
)

// DefaultArray is the array option used when none is configured
const DefaultArray = "0-{count}"

// ArrayArgument expands the --array option for a space of count
// combinations. {count} stands for the last valid task index, count-1.
func ArrayArgument(tmpl string, count int64) (string, error) {
	last := fmt.Sprintf("%d", count-1)
	out, missing := render.Substitute(tmpl, func(name string) (string, bool) {
		if name == "count" {
			return last, true
		}
		return "", false
	})
	if len(missing) > 0 {
		return "", errors.NewUnknownPlaceholderError(missing, []string{"count"})
	}
	return out, nil
}

// Script describes a batch script that resolves and runs one combination
// per array task.
type Script struct {
	Directives  Directives
	Workdir     string
	Executable  string
	ParamFile   string
	Fingerprint string
	Command     string
	Setup       string
}

// Render returns the script text. Each task calls back into the executable
// to resolve its command from SLURM_ARRAY_TASK_ID and then evaluates it.
// The resolve call always asks for text output.
func (s Script) Render() string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	for _, h := range s.Directives.Headers() {
		b.WriteString(h)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\ncd %s\n\n", Quote(s.Workdir))

	fmt.Fprintf(&b, "command=$(%s resolve --format=text --paramfile=%s \\\n", Quote(s.Executable), Quote(s.ParamFile))
	fmt.Fprintf(&b, "          --fingerprint=%s --command=%s)\n", s.Fingerprint, Quote(s.Command))
	b.WriteString("if [ $? -ne 0 ]; then\n")
	b.WriteString("    echo \"slurmsweep: could not resolve task ${SLURM_ARRAY_TASK_ID}\" >&2\n")
	b.WriteString("    exit 1\n")
	b.WriteString("fi\n\n")

	if setup := strings.TrimSpace(s.Setup); setup != "" {
		b.WriteString(setup)
		b.WriteString("\n\n")
	}

	b.WriteString("eval \"$command\"\n")
	return b.String()
}

// Quote returns s as a single word for a POSIX shell.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("@%+=:,./-_", r):
		return false
	default:
		return true
	}
}

// WriteScript writes contents to path, or to a new temporary file when path
// is empty, and returns the path written.
func WriteScript(contents, path string) (string, error) {
	if path == "" {
		f, err := os.CreateTemp("", "slurmsweep-*.sh")
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "create temporary script", err)
		}
		defer f.Close()

		if _, err := f.WriteString(contents); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("write script %s", f.Name()), err)
		}
		if err := f.Chmod(0755); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("chmod script %s", f.Name()), err)
		}
		return f.Name(), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("create directory %s", dir), err)
		}
	}
	if err := os.WriteFile(path, []byte(contents), 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("write script %s", path), err)
	}
	return path, nil
}
