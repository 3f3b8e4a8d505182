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
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(24); got != 18 {
		t.Errorf("ContentHeight(24) = %d, want 18", got)
	}
	if got := ContentHeight(4); got != 0 {
		t.Errorf("ContentHeight(4) = %d, want 0", got)
	}
}

func TestRenderHeaderStatus(t *testing.T) {
	h := RenderHeader("Number Racer", &Status{Correct: 3, Required: 10, Streak: 2}, 100)
	if !strings.Contains(h, "Number Racer") {
		t.Error("header missing title")
	}
	if !strings.Contains(h, "3/10") {
		t.Error("header missing progress")
	}
	if !strings.Contains(h, "★ 2") {
		t.Error("header missing streak")
	}

	bare := RenderHeader("Home", nil, 100)
	if strings.Contains(bare, "★") {
		t.Error("header without status should not show a streak")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	frame := RenderFrame("header", "body", "footer", 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
