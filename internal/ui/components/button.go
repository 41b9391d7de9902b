package components

import (
	"github.com/hongduc/quiz11/internal/ui/theme"
)

// Button is a focusable label.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
