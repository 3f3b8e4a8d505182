package scheduler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

// RetryInterval is the number of answers the throttle must count, while a
// retry is queued, before the retry is interleaved ahead of fresh items.
const RetryInterval = 3

var (
	// ErrInvalidRequired is returned when the required correct count is not positive.
	ErrInvalidRequired = errors.New("required correct answers must be positive")

	// ErrNoActiveQuestion is returned when an answer is reported while no
	// question is outstanding.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrMismatchedQuestion is returned when an answer is reported for a
	// pending item other than the one most recently served.
	ErrMismatchedQuestion = errors.New("answer does not match the active question")
)

// Pending is an item handed out by Next, tagged with the pool it came from.
// Callers pass it back unchanged to AnswerCorrectly or AnswerIncorrectly.
type Pending struct {
	Item           bank.Item
	FromRepeatPool bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxQuestions raises the per-set answer budget above the required
// correct count. Values below the required count are ignored.
func WithMaxQuestions(n int) Option {
	return func(s *Scheduler) {
		if n >= s.requiredCorrect {
			s.maxQuestions = n
		}
	}
}

// Scheduler picks the next practice item for one game round, retries missed
// items once after a delay, and defers items that fail their retry to the
// next play-again attempt.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	requiredCorrect int
	maxQuestions    int

	questionPool  []bank.Item
	repeatPool    []bank.Item
	playAgainPool []bank.Item

	totalAnswered    int
	correctAnswers   int
	incorrectAnswers int
	sinceRepeatCheck int

	sets     window
	gameOver bool
	reason   Reason

	current    Pending
	hasCurrent bool
}

// New creates a scheduler over b that requires requiredCorrect correct
// answers per set. The question pool starts out holding the entire bank;
// callers normally call Reset(false) before the first set to narrow it to
// the first bank slice.
func New(b bank.Bank, requiredCorrect int, opts ...Option) (*Scheduler, error) {
	if requiredCorrect <= 0 {
		return nil, fmt.Errorf("new scheduler: %w (got %d)", ErrInvalidRequired, requiredCorrect)
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("new scheduler: %w", bank.ErrEmptyBank)
	}

	items := b.Items()
	s := &Scheduler{
		requiredCorrect: requiredCorrect,
		maxQuestions:    requiredCorrect,
		questionPool:    slices.Clone(items),
		sets:            newWindow(items, requiredCorrect),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Next returns the next item to present, or false when the set is over.
func (s *Scheduler) Next() (Pending, bool) {
	if s.gameOver {
		return Pending{}, false
	}
	if s.totalAnswered >= s.maxQuestions {
		s.finish()
		return Pending{}, false
	}
	if s.correctAnswers >= s.requiredCorrect {
		s.finish()
		return Pending{}, false
	}

	if s.sinceRepeatCheck >= RetryInterval && len(s.repeatPool) > 0 {
		s.sinceRepeatCheck = 0
		return s.serve(Pending{Item: s.repeatPool[0], FromRepeatPool: true}), true
	}

	if len(s.questionPool) == 0 {
		if len(s.repeatPool) > 0 {
			return s.serve(Pending{Item: s.repeatPool[0], FromRepeatPool: true}), true
		}
		s.finish()
		return Pending{}, false
	}

	item := s.questionPool[0]
	s.questionPool = s.questionPool[1:]
	return s.serve(Pending{Item: item}), true
}

func (s *Scheduler) serve(p Pending) Pending {
	s.current = p
	s.hasCurrent = true
	return p
}

// AnswerCorrectly records a correct answer for p. A retried item leaves the
// repeat pool only through this path.
func (s *Scheduler) AnswerCorrectly(p Pending) error {
	if err := s.claim(p); err != nil {
		return err
	}

	s.totalAnswered++
	s.correctAnswers++
	if len(s.repeatPool) > 0 {
		s.sinceRepeatCheck++
	}
	if p.FromRepeatPool && len(s.repeatPool) > 0 {
		s.repeatPool = s.repeatPool[1:]
	}
	return nil
}

// AnswerIncorrectly records a wrong answer for p. A first miss queues the
// item for one retry; a miss on an item already queued moves it to the
// play-again pool.
func (s *Scheduler) AnswerIncorrectly(p Pending) error {
	if err := s.claim(p); err != nil {
		return err
	}

	s.totalAnswered++
	s.incorrectAnswers++

	key := p.Item.Key()
	idx := slices.IndexFunc(s.repeatPool, func(it bank.Item) bool { return it.Key() == key })
	if idx >= 0 {
		missed := s.repeatPool[idx]
		s.repeatPool = slices.Delete(s.repeatPool, idx, idx+1)
		s.playAgainPool = append(s.playAgainPool, missed)
	} else {
		s.repeatPool = append(s.repeatPool, p.Item)
	}

	if len(s.repeatPool) > 0 {
		s.sinceRepeatCheck++
	}
	return nil
}

// claim consumes the current question if p is it.
func (s *Scheduler) claim(p Pending) error {
	if !s.hasCurrent {
		return ErrNoActiveQuestion
	}
	if p.FromRepeatPool != s.current.FromRepeatPool || p.Item.Key() != s.current.Item.Key() {
		return ErrMismatchedQuestion
	}
	s.current = Pending{}
	s.hasCurrent = false
	return nil
}

// Reset starts a new set. A normal reset draws the next bank slice. A
// play-again reset serves the deferred items first, in order, topped up
// from the following bank slices until the set holds MaxQuestions items.
// Deferred items are never drawn from the bank a second time, so an item
// sits in at most one pool.
func (s *Scheduler) Reset(playAgain bool) {
	deferred := make(map[bank.Key]bool, len(s.playAgainPool))
	for _, it := range s.playAgainPool {
		deferred[it.Key()] = true
	}

	if playAgain {
		pool := slices.Clone(s.playAgainPool)
		if remaining := s.maxQuestions - len(pool); remaining > 0 {
			pool = append(pool, s.sets.take(remaining, deferred)...)
		}
		s.questionPool = pool
		s.playAgainPool = nil
	} else {
		s.questionPool = slices.DeleteFunc(s.sets.next(), func(it bank.Item) bool {
			return deferred[it.Key()]
		})
	}

	s.repeatPool = nil
	s.totalAnswered = 0
	s.correctAnswers = 0
	s.incorrectAnswers = 0
	s.sinceRepeatCheck = 0
	s.gameOver = false
	s.reason = ReasonNone
	s.current = Pending{}
	s.hasCurrent = false
}

func (s *Scheduler) finish() {
	s.gameOver = true
	s.hasCurrent = false
	s.current = Pending{}
	switch {
	case s.correctAnswers >= s.requiredCorrect:
		s.reason = ReasonSucceeded
	case s.totalAnswered >= s.maxQuestions:
		s.reason = ReasonCeiling
	default:
		s.reason = ReasonExhausted
	}
}
