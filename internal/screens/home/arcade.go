package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/ui/components"
	"github.com/abhisek/mathiz-arcade/internal/ui/theme"
)

const arcadeTitleFull = ` ███╗   ███╗ █████╗ ████████╗██╗  ██╗██╗███████╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║██║╚══███╔╝
 ██╔████╔██║███████║   ██║   ███████║██║  ███╔╝
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║██║ ███╔╝
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██║███████╗
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝╚══════╝
             A · R · C · A · D · E`

const arcadeTitleCompact = "M A T H I Z   A R C A D E"

// renderTitle returns the block-letter title or the compact fallback.
func renderTitle(cw int, compact bool) string {
	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(title))
}

// renderGameCard describes the highlighted game.
func renderGameCard(g games.Game, cw int) string {
	goal := lipgloss.NewStyle().
		Foreground(theme.ArcadeCyan).
		Bold(true).
		Render(fmt.Sprintf("Clear a set with %d right in %d tries", g.RequiredCorrect, g.MaxQuestions()))
	blurb := lipgloss.NewStyle().Foreground(theme.Text).Render(g.Blurb)
	return components.ArcadeCard(blurb+"\n"+goal, cw)
}
