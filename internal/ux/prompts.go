package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(message string, defaultYes bool) (bool, error)
}

// HuhConfirmer prompts with a huh confirm form
type HuhConfirmer struct{}

// Confirm displays a yes/no confirmation prompt
func (HuhConfirmer) Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes

	confirm := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// StaticConfirmer answers every question with the same value
type StaticConfirmer bool

// Confirm returns the fixed answer
func (c StaticConfirmer) Confirm(string, bool) (bool, error) {
	return bool(c), nil
}
