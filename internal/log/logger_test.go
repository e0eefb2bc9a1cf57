package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

func jsonLogger(buf *bytes.Buffer, level Level) *Logger {
	return New(Config{
		Level:  level,
		Format: FormatJSON,
		Output: NewOutput(buf),
	})
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "json with source", config: Config{Level: LevelDebug, Format: FormatJSON, AddSource: true}},
		{name: "text", config: Config{Level: LevelError, Format: FormatText, Output: OutputStderr()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil || logger.slog == nil {
				t.Fatal("expected logger, got nil")
			}
			if logger.Config().Level != tt.config.Level {
				t.Errorf("expected level %v, got %v", tt.config.Level, logger.Config().Level)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	logger.Warn("warn message", "key", "value")
	entry := decode(t, &buf)
	if entry["msg"] != "warn message" || entry["key"] != "value" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: NewOutput(&buf)})

	logger.Info("resolved task", "index", 3)
	out := buf.String()
	if !strings.Contains(out, `msg="resolved task"`) || !strings.Contains(out, "index=3") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelInfo).With("param_file", "params.toml").WithGroup("task")

	logger.Info("resolved", "index", 7)
	entry := decode(t, &buf)

	if entry["param_file"] != "params.toml" {
		t.Errorf("expected param_file attribute, got %v", entry)
	}
	group, ok := entry["task"].(map[string]any)
	if !ok || group["index"] != float64(7) {
		t.Errorf("expected task.index=7, got %v", entry["task"])
	}
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "sweep error",
			err:      errors.NewIndexOutOfRangeError(6, 6),
			wantCode: "INDEX-001",
			wantMsg:  "task index 6 out of range [0, 6)",
		},
		{
			name:     "wrapped sweep error",
			err:      fmt.Errorf("params.toml: %w", errors.NewEmptyParameterValuesError("depth")),
			wantCode: "PARAM-001",
			wantMsg:  `parameter "depth" has no values`,
		},
		{
			name:    "plain error",
			err:     fmt.Errorf("boom"),
			wantMsg: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			jsonLogger(&buf, LevelInfo).WithError(tt.err).Error("failed")
			entry := decode(t, &buf)

			if entry["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %q", entry["error"], tt.wantMsg)
			}
			if tt.wantCode != "" {
				if entry["error_code"] != tt.wantCode {
					t.Errorf("error_code = %v, want %q", entry["error_code"], tt.wantCode)
				}
				if _, ok := entry["suggestions"]; !ok {
					t.Error("expected suggestions attribute")
				}
			}
		})
	}
}

func TestWithErrorNil(t *testing.T) {
	logger := Discard()
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelInfo)

	cause := fmt.Errorf("exit status 1")
	logger.LogError(errors.NewSubmitFailedError("sbatch", "invalid partition", cause).WithDocs("https://slurm.schedmd.com/sbatch.html"))

	entry := decode(t, &buf)
	if entry["msg"] != "operation failed" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["error_code"] != "SBATCH-003" {
		t.Errorf("unexpected error_code %v", entry["error_code"])
	}
	if entry["cause"] != "exit status 1" {
		t.Errorf("unexpected cause %v", entry["cause"])
	}
	if entry["docs_url"] != "https://slurm.schedmd.com/sbatch.html" {
		t.Errorf("unexpected docs_url %v", entry["docs_url"])
	}

	buf.Reset()
	logger.LogErrorContext(context.Background(), fmt.Errorf("plain"))
	entry = decode(t, &buf)
	if entry["error"] != "plain" {
		t.Errorf("unexpected error %v", entry["error"])
	}

	buf.Reset()
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) should not log, got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	logger := New(Config{Level: LevelInfo, Output: NewOutput(&bytes.Buffer{})})
	ctx := context.Background()

	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at info level")
	}
	if logger.Handler() == nil {
		t.Error("expected handler")
	}
}
