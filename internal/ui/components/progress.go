package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/hongduc/quiz11/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Current int
	Total   int
	Width   int
}

// NewProgressBar creates a bar showing current of total.
func NewProgressBar(label string, current, total, width int) ProgressBar {
	return ProgressBar{Label: label, Current: current, Total: total, Width: width}
}

// Fraction returns the filled share in [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Current)/float64(p.Total), 0), 1)
}

// View renders the bar followed by "current/total".
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Current, p.Total)
	barWidth := max(p.Width-lipgloss.Width(result)-len(counter), 4)

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
	return result
}
