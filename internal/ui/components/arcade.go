package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathiz-arcade/internal/ui/theme"
)

// ButtonWidth is the fixed width of arcade menu buttons.
const ButtonWidth = 24

// ContentWidth returns the uniform inner width used for all arcade sections
// so boxes line up inside the cabinet.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeMenu renders a menu as a column of buttons. Compact mode draws plain
// lines for terminals too short for bordered buttons.
func ArcadeMenu(m Menu, cw int, compact bool) string {
	disabled := m.DisabledSet()
	lines := make([]string, 0, len(m.Items))
	for i, label := range m.Labels() {
		lines = append(lines, arcadeButton(label, i == m.Selected, disabled[i], compact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func arcadeButton(label string, selected, disabled, compact bool) string {
	if compact {
		switch {
		case disabled:
			return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case selected:
			return lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
	}

	style := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	switch {
	case disabled:
		return style.Foreground(theme.TextDim).Render(label)
	case selected:
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	default:
		return style.Foreground(theme.Text).Render(label)
	}
}
