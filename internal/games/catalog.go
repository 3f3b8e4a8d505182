// Package games is the catalog of arcade mini-games. Each game drills one
// bank topic and needs a fixed number of correct answers to clear a set.
package games

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

// Game describes one mini-game.
type Game struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Blurb           string `json:"blurb"`
	Topic           string `json:"topic"`
	RequiredCorrect int    `json:"required_correct"`

	// ExtraAttempts widens the answer budget above RequiredCorrect so a
	// set survives a few misses. Zero means the budget equals the target.
	ExtraAttempts int `json:"extra_attempts"`
}

// MaxQuestions returns the per-set answer budget.
func (g Game) MaxQuestions() int {
	return g.RequiredCorrect + g.ExtraAttempts
}

var catalog = []Game{
	{
		ID:              "racing",
		Name:            "Number Racer",
		Blurb:           "Answer sums to boost your car past the pack.",
		Topic:           bank.TopicAddition,
		RequiredCorrect: 10,
		ExtraAttempts:   4,
	},
	{
		ID:              "jumping",
		Name:            "Puddle Jumper",
		Blurb:           "Hop across puddles by taking away.",
		Topic:           bank.TopicSubtraction,
		RequiredCorrect: 8,
		ExtraAttempts:   4,
	},
	{
		ID:              "battling",
		Name:            "Times Table Arena",
		Blurb:           "Land multiplication combos to win the duel.",
		Topic:           bank.TopicMultiplication,
		RequiredCorrect: 10,
		ExtraAttempts:   5,
	},
	{
		ID:              "factoring",
		Name:            "Factor Forge",
		Blurb:           "Find the missing factor to forge each number.",
		Topic:           bank.TopicFactoring,
		RequiredCorrect: 6,
		ExtraAttempts:   3,
	},
	{
		ID:              "sharing",
		Name:            "Cookie Share",
		Blurb:           "Split the cookies into equal groups.",
		Topic:           bank.TopicDivision,
		RequiredCorrect: 8,
		ExtraAttempts:   4,
	},
}

// All returns every game in menu order.
func All() []Game {
	out := make([]Game, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a game by ID, case-insensitively.
func Lookup(id string) (Game, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, g := range catalog {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("unknown game %q", id)
}

// IDs returns every game ID in menu order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, g := range catalog {
		ids[i] = g.ID
	}
	return ids
}
