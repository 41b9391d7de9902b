package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/hongduc/quiz11/internal/ui/layout"
)

// Screen is one phase of the quiz flow rendered inside the app frame.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body; the header and footer are drawn by the app.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen fill the right side of the header.
type StatusProvider interface {
	Status() string
}
