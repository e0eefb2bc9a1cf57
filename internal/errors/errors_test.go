package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeIndexOutOfRange, "test error message")

	if err.Code != ErrCodeIndexOutOfRange {
		t.Errorf("expected code %s, got %s", ErrCodeIndexOutOfRange, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *SweepError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeUnknownPlaceholder, "unknown placeholder"),
			wantCode: "TMPL-001",
			wantMsg:  "unknown placeholder",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			wantCode: "IO-002",
			wantMsg:  "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeInvalidOverride, "bad override").
		WithSuggestion("first").
		WithSuggestions("second", "third").
		WithDocs("https://example.com/docs")

	if len(err.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(err.Suggestions))
	}

	errStr := err.Error()
	for _, want := range []string{"Suggestions:", "first", "third", "Documentation: https://example.com/docs"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("error string should contain %q, got: %s", want, errStr)
		}
	}
}

func TestIsMatchesByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "constructor matches sentinel",
			err:    NewIndexOutOfRangeError(6, 6),
			target: ErrIndexOutOfRange,
			want:   true,
		},
		{
			name:   "wrapped with fmt matches sentinel",
			err:    fmt.Errorf("resolve: %w", NewUnknownPlaceholderError([]string{"x"}, nil)),
			target: ErrUnknownPlaceholder,
			want:   true,
		},
		{
			name:   "different code does not match",
			err:    NewEmptyParameterValuesError("depth"),
			target: ErrDuplicateParameterName,
			want:   false,
		},
		{
			name:   "plain error does not match",
			err:    errors.New("boom"),
			target: ErrIndexOutOfRange,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinelsAreNotMutatedByConstructors(t *testing.T) {
	_ = NewIndexOutOfRangeError(1, 1)
	if len(ErrIndexOutOfRange.Suggestions) != 0 {
		t.Errorf("sentinel should carry no suggestions, got %v", ErrIndexOutOfRange.Suggestions)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"direct", NewSpaceChangedError("p.toml", "a", "b"), ErrCodeSpaceChanged},
		{"wrapped", fmt.Errorf("ctx: %w", NewSubmissionNotFoundError("abc")), ErrCodeSubmissionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnknownPlaceholderErrorListsNames(t *testing.T) {
	err := NewUnknownPlaceholderError([]string{"unknown", "other"}, []string{"dataset", "depth"})
	errStr := err.Error()

	for _, want := range []string{"{unknown}", "{other}", "dataset, depth"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("error string should contain %q, got: %s", want, errStr)
		}
	}
}
