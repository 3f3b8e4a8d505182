package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
)

// Responder answers prompts for headless play.
type Responder interface {
	Respond(ctx context.Context, p Prompt) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, p Prompt) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Observer is told about every answer during Run. Either field may be nil.
type Observer struct {
	OnPrompt   func(Prompt)
	OnFeedback func(Prompt, Feedback)
}

// Run plays the current round to the end with r supplying answers, then
// finishes it. Blank answers are asked again. Cancelling ctx abandons the
// round.
func (c *Controller) Run(ctx context.Context, r Responder, obs Observer) (Summary, error) {
	if !c.running {
		return Summary{}, ErrNotStarted
	}

	for {
		if err := ctx.Err(); err != nil {
			return c.Finish(context.WithoutCancel(ctx)), err
		}

		p, ok := c.Next()
		if !ok {
			break
		}
		if obs.OnPrompt != nil {
			obs.OnPrompt(p)
		}

		answer, err := r.Respond(ctx, p)
		if err != nil {
			return c.Finish(context.WithoutCancel(ctx)), fmt.Errorf("respond to question %d: %w", p.Number, err)
		}

		fb, err := c.Submit(ctx, answer)
		if errors.Is(err, ErrEmptyAnswer) {
			continue
		}
		if err != nil {
			return c.Finish(context.WithoutCancel(ctx)), err
		}
		if obs.OnFeedback != nil {
			obs.OnFeedback(p, fb)
		}
	}
	return c.Finish(ctx), nil
}

// Simulated returns a responder that answers correctly with probability
// accuracy, using a seeded generator so runs are repeatable. Wrong answers
// are off by one.
func Simulated(accuracy float64, seed uint64) Responder {
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	return ResponderFunc(func(_ context.Context, p Prompt) (string, error) {
		want := p.Pending.Item.Answer
		if rng.Float64() < accuracy {
			return strconv.Itoa(want), nil
		}
		return strconv.Itoa(want + 1), nil
	})
}

// Scripted returns a responder that replays answers in order, then
// returns ErrScriptExhausted.
func Scripted(answers ...string) Responder {
	i := 0
	return ResponderFunc(func(context.Context, Prompt) (string, error) {
		if i >= len(answers) {
			return "", ErrScriptExhausted
		}
		a := answers[i]
		i++
		return a, nil
	})
}

// ErrScriptExhausted is returned by a Scripted responder with no answers left.
var ErrScriptExhausted = errors.New("scripted answers exhausted")
