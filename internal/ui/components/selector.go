package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/hongduc/quiz11/internal/ui/theme"
)

// Selector cycles through a fixed list with left/right. Selected is -1
// while nothing is chosen; Placeholder is shown in that case.
type Selector struct {
	Options     []string
	Selected    int
	Focused     bool
	Placeholder string
}

// NewSelector creates a Selector starting at index start.
func NewSelector(options []string, start int) Selector {
	if start < 0 || start >= len(options) {
		start = 0
	}
	return Selector{Options: options, Selected: start}
}

// NewPromptSelector creates a Selector with nothing chosen. The first
// left/right picks an option; the placeholder cannot be chosen again.
func NewPromptSelector(options []string, placeholder string) Selector {
	return Selector{Options: options, Selected: -1, Placeholder: placeholder}
}

// Value returns the selected option, or "" when empty or unchosen.
func (s Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected]
}

// Update handles left/right; it reports whether the value changed.
func (s Selector) Update(msg tea.Msg) (Selector, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.Options) == 0 {
		return s, false
	}
	switch kmsg.String() {
	case "left", "h":
		if s.Selected < 0 {
			s.Selected = len(s.Options) - 1
		} else {
			s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
		}
		return s, true
	case "right", "l":
		s.Selected = (s.Selected + 1) % len(s.Options)
		return s, true
	}
	return s, false
}

// View renders "‹ value ›", highlighted when focused.
func (s Selector) View() string {
	v := s.Value()
	if v == "" && s.Placeholder != "" && len(s.Options) > 0 {
		if s.Focused {
			return theme.Selected.Render("‹ ") + theme.Dimmed.Render(s.Placeholder) + theme.Selected.Render(" ›")
		}
		return theme.Dimmed.Render("  " + s.Placeholder)
	}
	if v == "" {
		return theme.Dimmed.Render("(trống)")
	}
	if s.Focused {
		return theme.Selected.Render("‹ " + v + " ›")
	}
	return theme.Unselected.Render("  " + v)
}
