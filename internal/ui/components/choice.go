package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hongduc/quiz11/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// Choice lists a question's options and, once revealed, colors the
// correct option green and a wrong pick red. It does not decide
// correctness itself.
type Choice struct {
	Options  []string
	Selected int

	revealed bool
	chosen   string
	correct  string
}

// NewChoice creates a Choice for options.
func NewChoice(options []string) Choice {
	return Choice{Options: options}
}

// Reveal freezes the component and marks the chosen and correct options.
func (c *Choice) Reveal(chosen, correct string) {
	c.revealed = true
	c.chosen = chosen
	c.correct = correct
}

// Revealed reports whether Reveal has been called.
func (c Choice) Revealed() bool { return c.revealed }

// Current returns the option under the cursor.
func (c Choice) Current() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// Update moves the cursor. Number and letter keys jump to an option and
// report it as picked.
func (c Choice) Update(msg tea.Msg) (c2 Choice, picked bool) {
	if c.revealed {
		return c, false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, false
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
		return c, false
	case "enter", "space":
		return c, len(c.Options) > 0
	}

	for i := range c.Options {
		if key == fmt.Sprint(i+1) || strings.EqualFold(key, optionLabels[i]) {
			c.Selected = i
			return c, true
		}
	}
	return c, false
}

// View renders the options.
func (c Choice) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "▸ "
		}
		line := lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%s%s)  %s", prefix, optionLabels[i], opt))

		switch {
		case c.revealed && opt == c.correct:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case c.revealed && opt == c.chosen:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case c.revealed:
			b.WriteString(theme.Dimmed.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
