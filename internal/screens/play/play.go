// Package play is the screen that runs one game: it asks questions through
// a round controller, shows feedback after every answer and ends each set
// with a summary menu.
package play

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/round"
	"github.com/abhisek/mathiz-arcade/internal/router"
	"github.com/abhisek/mathiz-arcade/internal/screen"
	"github.com/abhisek/mathiz-arcade/internal/ui/components"
	"github.com/abhisek/mathiz-arcade/internal/ui/layout"
)

// FeedbackDelay is how long a correct answer stays on screen before the
// next question. Wrong answers wait for a key press.
const FeedbackDelay = 900 * time.Millisecond

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
	phaseSummary
)

// PlayScreen implements screen.Screen for a running game.
type PlayScreen struct {
	game  games.Game
	bank  bank.Bank
	ctrl  *round.Controller
	input components.TextInput

	phase       phase
	confirmQuit bool
	prompt      round.Prompt
	feedback    round.Feedback
	summary     round.Summary
	menu        components.Menu
	errMsg      string
}

var (
	_ screen.Screen          = (*PlayScreen)(nil)
	_ screen.KeyHintProvider = (*PlayScreen)(nil)
	_ screen.StatusProvider  = (*PlayScreen)(nil)
	_ screen.EscapeHandler   = (*PlayScreen)(nil)
	_ screen.Closer          = (*PlayScreen)(nil)
)

// New starts the first set of g over b. Failures are shown on the screen;
// any key then returns to the previous screen.
func New(g games.Game, b bank.Bank, opts ...round.Option) *PlayScreen {
	s := &PlayScreen{
		game:  g,
		bank:  b,
		input: newInput(),
	}

	ctrl, err := round.New(g, b, opts...)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	if err := ctrl.Start(context.Background()); err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.ctrl = ctrl
	s.advance()
	return s
}

// Failed returns a screen that reports err for g and goes back on any key.
func Failed(g games.Game, err error) *PlayScreen {
	return &PlayScreen{game: g, input: newInput(), errMsg: err.Error()}
}

func newInput() components.TextInput {
	return components.NewTextInput("?", true, 7)
}

func (s *PlayScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *PlayScreen) Title() string {
	return s.game.Name
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave game"},
			{Key: "N", Description: "Keep playing"},
		}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.phase == phaseSummary:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Status reports set progress for the header.
func (s *PlayScreen) Status() *layout.Status {
	if s.ctrl == nil {
		return nil
	}
	prog := s.ctrl.Progress()
	return &layout.Status{
		Correct:  prog.CorrectAnswers,
		Required: prog.RequiredCorrect,
		Streak:   s.ctrl.Streak(),
	}
}

// HandlesEscape is true while a set is running so Esc asks before leaving.
func (s *PlayScreen) HandlesEscape() bool {
	return s.errMsg == "" && s.phase != phaseSummary
}

// Close abandons a set that is still running.
func (s *PlayScreen) Close() {
	if s.ctrl != nil && s.phase != phaseSummary {
		s.summary = s.ctrl.Finish(context.Background())
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		if s.phase == phaseFeedback && !s.confirmQuit && msg.number == s.prompt.Number {
			return s, s.continueRound()
		}
		return s, nil

	case playAgainMsg:
		return s, s.restart(s.ctrl.PlayAgain)

	case nextSetMsg:
		return s, s.restart(s.ctrl.NextSet)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseQuestion && !s.confirmQuit && s.errMsg == "" {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, popScreen
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, popScreen
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseSummary:
		if key == "esc" {
			return s, popScreen
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case phaseFeedback:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		return s, s.continueRound()
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PlayScreen) submit() tea.Cmd {
	fb, err := s.ctrl.Submit(context.Background(), s.input.Value())
	if errors.Is(err, round.ErrEmptyAnswer) {
		return nil
	}
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.feedback = fb
	s.input.Submit(fb.Correct)
	s.phase = phaseFeedback

	if !fb.Correct {
		return nil
	}
	number := s.prompt.Number
	return tea.Tick(FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{number: number}
	})
}

// continueRound shows the next question or, when the set is over, the
// summary.
func (s *PlayScreen) continueRound() tea.Cmd {
	if s.advance() {
		return s.input.Init()
	}
	return nil
}

// advance moves to the next question and reports whether there was one.
func (s *PlayScreen) advance() bool {
	s.input.Reset()
	p, ok := s.ctrl.Next()
	if ok {
		s.prompt = p
		s.phase = phaseQuestion
		return true
	}

	s.summary = s.ctrl.Finish(context.Background())
	s.menu = summaryMenu(s.summary.CanPlayAgain)
	s.phase = phaseSummary
	return false
}

func (s *PlayScreen) restart(begin func(context.Context) error) tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	if err := begin(context.Background()); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.feedback = round.Feedback{}
	return s.continueRound()
}

func summaryMenu(canPlayAgain bool) components.Menu {
	return components.NewMenu([]components.MenuItem{
		{Label: "PLAY AGAIN", Disabled: !canPlayAgain, Action: func() tea.Cmd {
			return func() tea.Msg { return playAgainMsg{} }
		}},
		{Label: "NEXT SET", Action: func() tea.Cmd {
			return func() tea.Msg { return nextSetMsg{} }
		}},
		{Label: "BACK", Action: func() tea.Cmd {
			return popScreen
		}},
	})
}

func popScreen() tea.Msg {
	return router.PopScreenMsg{}
}
