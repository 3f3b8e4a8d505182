package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathiz-arcade/internal/scheduler"
	"github.com/abhisek/mathiz-arcade/internal/ui/components"
	"github.com/abhisek/mathiz-arcade/internal/ui/layout"
	"github.com/abhisek/mathiz-arcade/internal/ui/theme"
)

// maxDeferredShown caps the missed-item list on the summary.
const maxDeferredShown = 6

func (s *PlayScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}

	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var body string
	switch s.phase {
	case phaseSummary:
		body = s.renderSummary(cw, compact)
	default:
		body = s.renderQuestion(cw)
	}
	return components.CabinetFrame(body, width, height)
}

func (s *PlayScreen) renderQuestion(cw int) string {
	prog := s.ctrl.Progress()

	var b strings.Builder

	b.WriteString(components.NewProgressBar("Set", prog.CorrectAnswers, prog.RequiredCorrect, cw).View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d  ·  %d answered of %d", s.prompt.Number, prog.TotalAnswered, prog.MaxQuestions)))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(s.prompt.Text)
	if s.prompt.Retry {
		question += "\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render("↻ try this one again")
	}
	b.WriteString(components.ArcadeCard(question, cw))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View()))

	if s.phase == phaseFeedback {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s.renderFeedback()))
	}
	return b.String()
}

func (s *PlayScreen) renderFeedback() string {
	fb := s.feedback
	if !fb.Correct {
		return theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %d.", fb.Expected))
	}
	msg := theme.Correct.Render("Correct!")
	if fb.Milestone {
		msg += "  " + theme.Streak.Render(fmt.Sprintf("★ %d in a row!", fb.Streak))
	}
	return msg
}

func (s *PlayScreen) renderSummary(cw int, compact bool) string {
	sum := s.summary
	prog := sum.Progress

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(summaryTitle(prog)))

	secs := int(sum.Duration.Seconds())
	stats := fmt.Sprintf("Correct %d/%d   Answered %d   Best streak %d   Time %d:%02d",
		prog.CorrectAnswers, prog.RequiredCorrect, prog.TotalAnswered, sum.BestStreak, secs/60, secs%60)
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(stats))

	if len(sum.Deferred) > 0 && !compact {
		shown := sum.Deferred[:min(len(sum.Deferred), maxDeferredShown)]
		lines := make([]string, 0, len(shown)+1)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("To practise"))
		for _, item := range shown {
			lines = append(lines, fmt.Sprintf("%s  %d", s.bank.Text(item), item.Answer))
		}
		if extra := len(sum.Deferred) - len(shown); extra > 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("+%d more", extra)))
		}
		sections = append(sections, components.ArcadeCard(strings.Join(lines, "\n"), cw))
	}

	sections = append(sections, components.ArcadeMenu(s.menu, cw, compact))
	return strings.Join(sections, "\n\n")
}

func summaryTitle(prog scheduler.Progress) string {
	switch prog.Reason {
	case scheduler.ReasonSucceeded:
		return "SET CLEARED!"
	case scheduler.ReasonCeiling:
		return "OUT OF TURNS"
	default:
		return "OUT OF QUESTIONS"
	}
}

func renderError(width, height int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Error).
		Render("Could not start the game\n\n" + msg + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press any key to go back"))
}

func renderQuitConfirm(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render("Leave this game?\n\nProgress in this set will be lost.\n\n[Y] Leave   [N] Keep playing")
}
