package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Play again", Disabled: true},
		{Label: "Next set"},
		{Label: "Back"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up onto disabled item moved selection to %d", m.Selected)
	}

	m, _ = m.Update(keyPress('j'))
	if m.Selected != 2 {
		t.Errorf("Selected = %d after j, want 2", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected Enter to run the selected action")
	}
}

func TestArcadeMenuMarksSelection(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Number Racer"}, {Label: "Quit"}})
	view := ArcadeMenu(m, 40, true)
	if !strings.Contains(view, "▸ Number Racer") {
		t.Errorf("selected item not marked:\n%s", view)
	}
	if strings.Contains(view, "▸ Quit") {
		t.Error("unselected item marked")
	}
}

func TestTextInputNumericOnly(t *testing.T) {
	ti := NewTextInput("answer", true, 6)
	for _, r := range "4a2" {
		ti, _ = ti.Update(keyPress(r))
	}
	if got := ti.Value(); got != "42" {
		t.Errorf("Value = %q, want %q", got, "42")
	}

	ti.Submit(true)
	ti, _ = ti.Update(keyPress('7'))
	if got := ti.Value(); got != "42" {
		t.Errorf("submitted input accepted more keys: %q", got)
	}
	if !strings.Contains(ti.View(), "✓") {
		t.Error("expected check mark after a valid submit")
	}

	ti.Reset()
	if ti.Value() != "" || ti.Submitted() {
		t.Error("Reset should clear the value and unlock the input")
	}
}

func TestProgressBarFraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 10, 0},
		{5, 10, 0.5},
		{12, 10, 1},
		{3, 0, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.done, tt.total, 30)
		if got := p.Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
	if !strings.Contains(NewProgressBar("Set", 3, 10, 40).View(), "3/10") {
		t.Error("progress view missing count")
	}
}
