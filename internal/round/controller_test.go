package round

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/scheduler"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

// fakeEvents records every event in memory.
type fakeEvents struct {
	starts  []store.RoundStartData
	ends    []store.RoundEndData
	answers []store.AnswerEventData
	err     error
}

func (f *fakeEvents) AppendRoundStart(_ context.Context, d store.RoundStartData) error {
	f.starts = append(f.starts, d)
	return f.err
}

func (f *fakeEvents) AppendRoundEnd(_ context.Context, d store.RoundEndData) error {
	f.ends = append(f.ends, d)
	return f.err
}

func (f *fakeEvents) AppendAnswer(_ context.Context, d store.AnswerEventData) error {
	f.answers = append(f.answers, d)
	return f.err
}

func (f *fakeEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return f.err
}

var testGame = games.Game{ID: "racing", Topic: "doubles", RequiredCorrect: 3, ExtraAttempts: 2}

// doubles builds n items i + i = 2i for i in 1..n.
func doubles(n int) bank.Bank {
	items := make([]bank.Item, n)
	for i := range n {
		items[i] = bank.Item{Operand1: i + 1, Operand2: i + 1, Answer: 2 * (i + 1)}
	}
	return bank.New("doubles", "Doubles", bank.OpAdd, items)
}

func newController(t *testing.T, events store.EventRepo, opts ...Option) *Controller {
	t.Helper()
	if events != nil {
		opts = append(opts, WithEvents(events))
	}
	c, err := New(testGame, doubles(6), opts...)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	return c
}

// answerNext fetches the next prompt and answers it right or wrong.
func answerNext(t *testing.T, c *Controller, wantOperand int, right bool) Feedback {
	t.Helper()
	p, ok := c.Next()
	require.True(t, ok, "expected a prompt for operand %d", wantOperand)
	require.Equal(t, wantOperand, p.Pending.Item.Operand1)

	given := strconv.Itoa(p.Pending.Item.Answer)
	if !right {
		given = "0"
	}
	fb, err := c.Submit(context.Background(), given)
	require.NoError(t, err)
	require.Equal(t, right, fb.Correct)
	return fb
}

func TestNewRejectsEmptyBank(t *testing.T) {
	_, err := New(testGame, bank.Bank{})
	assert.ErrorIs(t, err, bank.ErrEmptyBank)
}

func TestRunAllCorrect(t *testing.T) {
	events := &fakeEvents{}
	c := newController(t, events)

	var milestones []int
	sum, err := c.Run(context.Background(), Simulated(1, 7), Observer{
		OnFeedback: func(_ Prompt, fb Feedback) {
			if fb.Milestone {
				milestones = append(milestones, fb.Streak)
			}
		},
	})
	require.NoError(t, err)

	assert.True(t, sum.Progress.Successful)
	assert.Equal(t, scheduler.ReasonSucceeded, sum.Progress.Reason)
	assert.Equal(t, 3, sum.Progress.TotalAnswered)
	assert.Equal(t, 3, sum.BestStreak)
	assert.False(t, sum.CanPlayAgain)
	assert.Equal(t, []int{3}, milestones)

	require.Len(t, events.starts, 1)
	require.Len(t, events.answers, 3)
	require.Len(t, events.ends, 1)
	assert.Equal(t, c.RoundID(), events.starts[0].RoundID)
	assert.Equal(t, "doubles", events.starts[0].Topic)
	assert.Equal(t, 5, events.starts[0].MaxQuestions)
	assert.Equal(t, "succeeded", events.ends[0].Reason)
	assert.Equal(t, "1,1=2", events.answers[0].ItemKey)
}

func TestNextRepeatsUnansweredPrompt(t *testing.T) {
	c := newController(t, nil)

	p1, ok := c.Next()
	require.True(t, ok)
	p2, _ := c.Next()
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, p1.Number)
	assert.Equal(t, "1 + 1 = ?", p1.Text)
}

func TestSubmitErrors(t *testing.T) {
	c, err := New(testGame, doubles(6))
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), "2")
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, c.Start(context.Background()))
	_, err = c.Submit(context.Background(), "2")
	assert.ErrorIs(t, err, ErrNoPrompt)

	c.Next()
	_, err = c.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Equal(t, 0, c.Progress().TotalAnswered)

	fb, err := c.Submit(context.Background(), "two")
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, 2, fb.Expected)
}

func TestStreakResetsOnMiss(t *testing.T) {
	c := newController(t, nil)

	assert.Equal(t, 1, answerNext(t, c, 1, true).Streak)
	assert.Equal(t, 2, answerNext(t, c, 2, true).Streak)
	assert.Equal(t, 0, answerNext(t, c, 3, false).Streak)
	assert.Equal(t, 0, c.Streak())
}

func TestPlayAgainServesDeferredItems(t *testing.T) {
	events := &fakeEvents{}
	c := newController(t, events)
	ctx := context.Background()

	require.ErrorIs(t, c.PlayAgain(ctx), ErrNothingToReplay)

	answerNext(t, c, 1, false)
	answerNext(t, c, 2, true)
	answerNext(t, c, 3, true)
	fb := answerNext(t, c, 1, false)
	assert.Equal(t, 1, fb.Progress.PlayAgainPool)

	_, ok := c.Next()
	require.False(t, ok)

	sum := c.Finish(ctx)
	assert.Equal(t, scheduler.ReasonExhausted, sum.Progress.Reason)
	assert.True(t, sum.CanPlayAgain)
	require.Len(t, sum.Deferred, 1)
	assert.Equal(t, 1, sum.Deferred[0].Operand1)

	require.NoError(t, c.PlayAgain(ctx))
	assert.Equal(t, 2, c.Attempt())

	p, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 1, p.Pending.Item.Operand1)
	assert.False(t, p.Retry)
	assert.False(t, c.CanPlayAgain())

	last := events.starts[len(events.starts)-1]
	assert.True(t, last.PlayAgain)
	assert.Equal(t, 2, last.Attempt)
}

func TestStartingNewRoundAbandonsRunningOne(t *testing.T) {
	events := &fakeEvents{}
	c := newController(t, events)
	first := c.RoundID()

	answerNext(t, c, 1, true)
	require.NoError(t, c.NextSet(context.Background()))

	require.Len(t, events.ends, 1)
	assert.Equal(t, first, events.ends[0].RoundID)
	assert.Equal(t, "abandoned", events.ends[0].Reason)
	assert.NotEqual(t, first, c.RoundID())

	// NextSet moved to the second bank slice.
	answerNext(t, c, 4, true)
}

func TestFinishIsIdempotent(t *testing.T) {
	events := &fakeEvents{}
	c := newController(t, events)
	_, err := c.Run(context.Background(), Simulated(1, 1), Observer{})
	require.NoError(t, err)

	again := c.Finish(context.Background())
	assert.Equal(t, 3, again.Progress.CorrectAnswers)
	assert.Len(t, events.ends, 1)
}

func TestRecorderFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	events := &fakeEvents{err: errors.New("disk full")}
	c := newController(t, events, WithLogger(logging.New(logging.Options{Output: &buf})))

	sum, err := c.Run(context.Background(), Simulated(1, 1), Observer{})
	require.NoError(t, err)
	assert.True(t, sum.Progress.Successful)
	assert.Contains(t, buf.String(), "failed to record answer")
	assert.Contains(t, buf.String(), "disk full")
}

func TestRunCancelled(t *testing.T) {
	events := &fakeEvents{}
	c := newController(t, events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := c.Run(ctx, Simulated(1, 1), Observer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sum.Progress.Completed)
	require.Len(t, events.ends, 1)
	assert.Equal(t, "abandoned", events.ends[0].Reason)
}

func TestRunResponderError(t *testing.T) {
	c := newController(t, nil)

	_, err := c.Run(context.Background(), Scripted("2", "4"), Observer{})
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Equal(t, 2, c.Progress().CorrectAnswers)
}

func TestRunSkipsBlankAnswers(t *testing.T) {
	c := newController(t, nil)

	var prompts int
	sum, err := c.Run(context.Background(), Scripted("", "2", " ", "4", "6"), Observer{
		OnPrompt: func(Prompt) { prompts++ },
	})
	require.NoError(t, err)
	assert.True(t, sum.Progress.Successful)
	assert.Equal(t, 5, prompts)
}

func TestResponseTimeUsesClock(t *testing.T) {
	events := &fakeEvents{}
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(1500 * time.Millisecond)
		return now
	}
	c := newController(t, events, WithClock(clock))

	answerNext(t, c, 1, true)
	require.Len(t, events.answers, 1)
	assert.Equal(t, int64(1500), events.answers[0].ResponseMs)
}

func TestRecordsToSQLiteStore(t *testing.T) {
	st, err := store.Open(":memory:", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := newController(t, st)
	_, err = c.Run(context.Background(), Simulated(0, 3), Observer{})
	require.NoError(t, err)

	got, err := st.GetRound(context.Background(), c.RoundID())
	require.NoError(t, err)
	assert.Equal(t, "racing", got.GameID)
	assert.False(t, got.Successful)
	assert.Equal(t, got.TotalAnswered, len(got.Answers))
	assert.NotEmpty(t, got.Reason)
}
