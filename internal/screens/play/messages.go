package play

// feedbackDoneMsg ends the feedback pause for question number.
type feedbackDoneMsg struct {
	number int
}

// playAgainMsg starts a round over the deferred items.
type playAgainMsg struct{}

// nextSetMsg starts a round over the next slice of the bank.
type nextSetMsg struct{}
