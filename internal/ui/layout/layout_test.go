package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Câu hỏi", "Lan · 11A1", 80)
	for _, want := range []string{AppName, "Câu hỏi", "Lan · 11A1"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("t", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Chọn"}}, 80)

	frame := RenderFrame(header, "body", footer, 80, 24)

	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
