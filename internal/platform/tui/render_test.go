package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "Score: 4", core.ColorDefault)
	s.DrawText(0, 1, "██", core.ColorWhite)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "Score: 4") {
		t.Errorf("line 0 = %q, expected the HUD text", lines[0])
	}
	if !strings.Contains(lines[1], "██") {
		t.Errorf("line 1 = %q, expected the snake cells", lines[1])
	}
}

func TestCenterText(t *testing.T) {
	got := centerText("ab", 6)
	if got != "  ab  " {
		t.Errorf("centerText() = %q, expected %q", got, "  ab  ")
	}
}
