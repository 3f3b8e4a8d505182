// Package round drives one mini-game through its sets: it owns the game's
// scheduler, checks answers, tracks streaks and records every round,
// answer and outcome to an event repo.
package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/scheduler"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

var (
	// ErrNotStarted is returned when a round operation is used before Start.
	ErrNotStarted = errors.New("round not started")

	// ErrNoPrompt is returned by Submit when no question is showing.
	ErrNoPrompt = errors.New("no question to answer")

	// ErrEmptyAnswer is returned by Submit for blank input. The question
	// stays open.
	ErrEmptyAnswer = errors.New("empty answer")

	// ErrNothingToReplay is returned by PlayAgain when no items were deferred.
	ErrNothingToReplay = errors.New("no missed items to play again")
)

// Prompt is a question ready to show.
type Prompt struct {
	Number  int
	Text    string
	Retry   bool
	Pending scheduler.Pending
}

// Feedback is the result of one submitted answer.
type Feedback struct {
	Correct   bool
	Given     string
	Expected  int
	Streak    int
	Milestone bool
	Progress  scheduler.Progress
}

// Summary describes a finished round.
type Summary struct {
	RoundID      string
	GameID       string
	Attempt      int
	PlayAgain    bool
	SetIndex     int
	Progress     scheduler.Progress
	BestStreak   int
	Duration     time.Duration
	Deferred     []bank.Item
	CanPlayAgain bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithEvents records rounds and answers to repo.
func WithEvents(repo store.EventRepo) Option {
	return func(c *Controller) { c.events = repo }
}

// WithLogger sets the logger used for recorder failures and round events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = logging.Component(l, "round") }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller runs rounds of one game over one bank.
type Controller struct {
	game   games.Game
	bank   bank.Bank
	sched  *scheduler.Scheduler
	events store.EventRepo
	logger *slog.Logger
	now    func() time.Time

	roundID   string
	attempt   int
	playAgain bool
	setIndex  int
	started   time.Time
	running   bool
	finished  *Summary

	current *Prompt
	askedAt time.Time
	number  int
	streak  int
	best    int
}

// New creates a controller for g drawing items from b.
func New(g games.Game, b bank.Bank, opts ...Option) (*Controller, error) {
	sched, err := scheduler.New(b, g.RequiredCorrect, scheduler.WithMaxQuestions(g.MaxQuestions()))
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", g.ID, err)
	}

	c := &Controller{
		game:   g,
		bank:   b,
		sched:  sched,
		logger: logging.Component(nil, "round"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Game returns the game being played.
func (c *Controller) Game() games.Game { return c.game }

// RoundID returns the current round's ID, empty before Start.
func (c *Controller) RoundID() string { return c.roundID }

// Attempt returns how many rounds have been started.
func (c *Controller) Attempt() int { return c.attempt }

// Progress returns the scheduler's counters for the current round.
func (c *Controller) Progress() scheduler.Progress { return c.sched.Progress() }

// Streak returns the current consecutive-correct count.
func (c *Controller) Streak() int { return c.streak }

// Start begins the first set.
func (c *Controller) Start(ctx context.Context) error {
	return c.begin(ctx, false)
}

// NextSet begins a round over the next slice of the bank.
func (c *Controller) NextSet(ctx context.Context) error {
	return c.begin(ctx, false)
}

// PlayAgain begins a round that serves the deferred items first.
func (c *Controller) PlayAgain(ctx context.Context) error {
	if c.sched.PlayAgainPoolSize() == 0 {
		return ErrNothingToReplay
	}
	return c.begin(ctx, true)
}

// CanPlayAgain reports whether any items are waiting for a play-again round.
func (c *Controller) CanPlayAgain() bool {
	return c.sched.PlayAgainPoolSize() > 0
}

func (c *Controller) begin(ctx context.Context, playAgain bool) error {
	if c.running {
		c.Finish(ctx)
	}

	c.sched.Reset(playAgain)
	c.attempt++
	c.roundID = uuid.NewString()
	c.playAgain = playAgain
	c.setIndex = c.sched.SetIndex()
	c.started = c.now()
	c.running = true
	c.finished = nil
	c.current = nil
	c.number = 0
	c.streak = 0
	c.best = 0

	c.logger.Info("round started",
		"game", c.game.ID, "round", c.roundID, "attempt", c.attempt,
		"play_again", playAgain, "set", c.setIndex, "items", c.sched.Remaining())

	c.record(ctx, "round start", func(repo store.EventRepo) error {
		return repo.AppendRoundStart(ctx, store.RoundStartData{
			RoundID:         c.roundID,
			GameID:          c.game.ID,
			Topic:           c.bank.Topic,
			Attempt:         c.attempt,
			PlayAgain:       playAgain,
			SetIndex:        c.setIndex,
			RequiredCorrect: c.sched.RequiredCorrect(),
			MaxQuestions:    c.sched.MaxQuestions(),
			StartedAt:       c.started,
		})
	})
	return nil
}

// Next returns the question to show, or false when the round is over. While
// a question is unanswered Next keeps returning it.
func (c *Controller) Next() (Prompt, bool) {
	if !c.running {
		return Prompt{}, false
	}
	if c.current != nil {
		return *c.current, true
	}

	p, ok := c.sched.Next()
	if !ok {
		return Prompt{}, false
	}

	c.number++
	c.current = &Prompt{
		Number:  c.number,
		Text:    c.bank.Text(p.Item),
		Retry:   p.FromRepeatPool,
		Pending: p,
	}
	c.askedAt = c.now()
	return *c.current, true
}

// Submit checks answer against the showing question and reports the result
// to the scheduler.
func (c *Controller) Submit(ctx context.Context, answer string) (Feedback, error) {
	if !c.running {
		return Feedback{}, ErrNotStarted
	}
	if c.current == nil {
		return Feedback{}, ErrNoPrompt
	}
	if strings.TrimSpace(answer) == "" {
		return Feedback{}, ErrEmptyAnswer
	}

	prompt := *c.current
	item := prompt.Pending.Item
	correct := CheckAnswer(answer, item.Answer)

	var err error
	if correct {
		err = c.sched.AnswerCorrectly(prompt.Pending)
	} else {
		err = c.sched.AnswerIncorrectly(prompt.Pending)
	}
	if err != nil {
		return Feedback{}, fmt.Errorf("report answer: %w", err)
	}
	c.current = nil

	if correct {
		c.streak++
		c.best = max(c.best, c.streak)
	} else {
		c.streak = 0
	}

	answeredAt := c.now()
	c.record(ctx, "answer", func(repo store.EventRepo) error {
		return repo.AppendAnswer(ctx, store.AnswerEventData{
			RoundID:    c.roundID,
			Number:     prompt.Number,
			ItemKey:    item.Key().String(),
			Operand1:   item.Operand1,
			Operand2:   item.Operand2,
			Expected:   item.Answer,
			Prompt:     prompt.Text,
			Given:      answer,
			Correct:    correct,
			Retry:      prompt.Retry,
			ResponseMs: answeredAt.Sub(c.askedAt).Milliseconds(),
			AnsweredAt: answeredAt,
		})
	})

	return Feedback{
		Correct:   correct,
		Given:     answer,
		Expected:  item.Answer,
		Streak:    c.streak,
		Milestone: correct && IsStreakMilestone(c.streak),
		Progress:  c.sched.Progress(),
	}, nil
}

// Finish closes the round and records its outcome. It is safe to call more
// than once; later calls return the same summary. A round finished before
// Next reported the end is recorded as abandoned.
func (c *Controller) Finish(ctx context.Context) Summary {
	if c.finished != nil {
		return *c.finished
	}

	prog := c.sched.Progress()
	s := Summary{
		RoundID:      c.roundID,
		GameID:       c.game.ID,
		Attempt:      c.attempt,
		PlayAgain:    c.playAgain,
		SetIndex:     c.setIndex,
		Progress:     prog,
		BestStreak:   c.best,
		Duration:     c.now().Sub(c.started),
		Deferred:     c.sched.PlayAgainItems(),
		CanPlayAgain: prog.PlayAgainPool > 0,
	}

	reason := string(prog.Reason)
	if !prog.Completed {
		reason = "abandoned"
	}

	c.running = false
	c.current = nil
	c.finished = &s

	c.logger.Info("round finished",
		"game", c.game.ID, "round", c.roundID, "reason", reason,
		"correct", prog.CorrectAnswers, "answered", prog.TotalAnswered, "deferred", prog.PlayAgainPool)

	c.record(ctx, "round end", func(repo store.EventRepo) error {
		return repo.AppendRoundEnd(ctx, store.RoundEndData{
			RoundID:       c.roundID,
			TotalAnswered: prog.TotalAnswered,
			Correct:       prog.CorrectAnswers,
			Incorrect:     prog.IncorrectAnswers,
			Reason:        reason,
			Successful:    prog.Successful,
			Deferred:      prog.PlayAgainPool,
			BestStreak:    c.best,
			EndedAt:       c.now(),
		})
	})
	return s
}

// record runs fn against the event repo, logging failures instead of
// returning them so a broken database never interrupts play.
func (c *Controller) record(ctx context.Context, what string, fn func(store.EventRepo) error) {
	if c.events == nil {
		return
	}
	if err := fn(c.events); err != nil {
		c.logger.Warn("failed to record "+what, "round", c.roundID, "error", err)
	}
}
