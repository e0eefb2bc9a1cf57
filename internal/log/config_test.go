package log

import (
	"bytes"
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected text format, got %v", cfg.Format)
	}
	if cfg.Output.Writer() != os.Stderr {
		t.Error("expected stderr output")
	}
	if cfg.AddSource {
		t.Error("expected AddSource to be false")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"console", FormatText, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if FormatJSON.String() != "json" {
		t.Errorf("FormatJSON.String() = %q", FormatJSON.String())
	}
	if FormatText.String() != "text" {
		t.Errorf("FormatText.String() = %q", FormatText.String())
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("debug", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Level != LevelDebug || cfg.Format != FormatJSON {
		t.Errorf("got level %v format %v", cfg.Level, cfg.Format)
	}
	if !cfg.AddSource {
		t.Error("debug level should add source locations")
	}

	if _, err := ParseConfig("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := ParseConfig("info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	if NewOutput(&buf).Writer() != &buf {
		t.Error("NewOutput should wrap the given writer")
	}
	if (Output{}).Writer() != os.Stderr {
		t.Error("zero Output should write to stderr")
	}
}
