package scheduler

import (
	"slices"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

// Reason records why a set ended.
type Reason string

const (
	// ReasonNone means the set is still running.
	ReasonNone Reason = ""

	// ReasonSucceeded means the required number of correct answers was reached.
	ReasonSucceeded Reason = "succeeded"

	// ReasonCeiling means the answer budget ran out first.
	ReasonCeiling Reason = "ceiling"

	// ReasonExhausted means both the question and repeat pools ran dry.
	ReasonExhausted Reason = "exhausted"
)

// Progress is a point-in-time copy of the scheduler's counters.
type Progress struct {
	TotalAnswered    int    `json:"total_answered"`
	CorrectAnswers   int    `json:"correct_answers"`
	IncorrectAnswers int    `json:"incorrect_answers"`
	Remaining        int    `json:"remaining"`
	RepeatPool       int    `json:"repeat_pool"`
	PlayAgainPool    int    `json:"play_again_pool"`
	RequiredCorrect  int    `json:"required_correct"`
	MaxQuestions     int    `json:"max_questions"`
	SetIndex         int    `json:"set_index"`
	Completed        bool   `json:"completed"`
	Successful       bool   `json:"successful"`
	Reason           Reason `json:"reason,omitempty"`
}

// TotalAnswered returns the number of answers recorded in the current set.
func (s *Scheduler) TotalAnswered() int { return s.totalAnswered }

// CorrectAnswers returns the number of correct answers in the current set.
func (s *Scheduler) CorrectAnswers() int { return s.correctAnswers }

// IncorrectAnswers returns the number of wrong answers in the current set.
func (s *Scheduler) IncorrectAnswers() int { return s.incorrectAnswers }

// Remaining returns the number of fresh items left in the question pool.
func (s *Scheduler) Remaining() int { return len(s.questionPool) }

// RepeatPoolSize returns the number of items queued for a retry.
func (s *Scheduler) RepeatPoolSize() int { return len(s.repeatPool) }

// PlayAgainPoolSize returns the number of items deferred to the next
// play-again attempt.
func (s *Scheduler) PlayAgainPoolSize() int { return len(s.playAgainPool) }

// RequiredCorrect returns the correct answers needed to win a set.
func (s *Scheduler) RequiredCorrect() int { return s.requiredCorrect }

// MaxQuestions returns the answer budget per set.
func (s *Scheduler) MaxQuestions() int { return s.maxQuestions }

// SetIndex returns the index of the bank slice the next Reset will draw.
func (s *Scheduler) SetIndex() int { return s.sets.index }

// IsGameCompleted reports whether the current set has ended.
func (s *Scheduler) IsGameCompleted() bool { return s.gameOver }

// WasGameSuccessful reports whether the set ended with enough correct answers.
func (s *Scheduler) WasGameSuccessful() bool {
	return s.gameOver && s.correctAnswers >= s.requiredCorrect
}

// Reason returns why the set ended, or ReasonNone while it is running.
func (s *Scheduler) Reason() Reason { return s.reason }

// Current returns the outstanding question, if any.
func (s *Scheduler) Current() (Pending, bool) {
	return s.current, s.hasCurrent
}

// PlayAgainItems returns a copy of the deferred items in order.
func (s *Scheduler) PlayAgainItems() []bank.Item {
	return slices.Clone(s.playAgainPool)
}

// Progress returns a snapshot of all counters and pool sizes.
func (s *Scheduler) Progress() Progress {
	return Progress{
		TotalAnswered:    s.totalAnswered,
		CorrectAnswers:   s.correctAnswers,
		IncorrectAnswers: s.incorrectAnswers,
		Remaining:        len(s.questionPool),
		RepeatPool:       len(s.repeatPool),
		PlayAgainPool:    len(s.playAgainPool),
		RequiredCorrect:  s.requiredCorrect,
		MaxQuestions:     s.maxQuestions,
		SetIndex:         s.sets.index,
		Completed:        s.gameOver,
		Successful:       s.WasGameSuccessful(),
		Reason:           s.reason,
	}
}
