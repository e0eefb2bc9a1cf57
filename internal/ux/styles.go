package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for human-readable output
type Styles struct {
	Title   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles returns the output styles. With noColor every style is plain.
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Key: plain, Value: plain, Muted: plain, Success: plain, Warning: plain}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Muted:   lipgloss.NewStyle().Faint(true),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Field is one labelled line of a summary
type Field struct {
	Label string
	Value string
}

// WriteSummary writes a title followed by aligned label/value lines
func WriteSummary(w io.Writer, styles Styles, title string, fields []Field) error {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(styles.Title.Render(title))
		b.WriteByte('\n')
	}
	for _, f := range fields {
		label := fmt.Sprintf("%-*s", width+1, f.Label+":")
		b.WriteString("  ")
		b.WriteString(styles.Key.Render(label))
		b.WriteByte(' ')
		b.WriteString(styles.Value.Render(f.Value))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
