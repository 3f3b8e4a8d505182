// Package bankgen authors item banks with a language model. Replies are
// schema-checked by the llm layer, then every item is checked here: wrong
// arithmetic, out-of-range operands and duplicates are dropped.
package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/llm"
	"github.com/abhisek/mathiz-arcade/internal/logging"
)

// ErrTooFewItems is returned when the model never produced enough usable
// items.
var ErrTooFewItems = errors.New("not enough usable items generated")

// Request describes the bank to generate.
type Request struct {
	Topic       string
	Name        string
	Description string
	Operation   bank.Operation
	Count       int

	// Min and Max bound the operands. See operationRules for which
	// operands the bound applies to.
	Min, Max int

	// Avoid lists items the bank must not contain, e.g. an existing bank
	// being extended.
	Avoid []bank.Item
}

func (r Request) validate() error {
	var problems []string
	if r.Topic == "" {
		problems = append(problems, "topic is required")
	}
	if _, err := bank.ParseOperation(string(r.Operation)); err != nil {
		problems = append(problems, err.Error())
	}
	if r.Count < 1 {
		problems = append(problems, "count must be at least 1")
	}
	if r.Min > r.Max {
		problems = append(problems, fmt.Sprintf("min %d is greater than max %d", r.Min, r.Max))
	}
	if len(problems) > 0 {
		return &bank.ValidationError{Topic: r.Topic, Problems: problems}
	}
	return nil
}

// Config tunes the generator.
type Config struct {
	// Rounds is how many model calls may be made to reach Count.
	Rounds int

	MaxTokens   int
	Temperature float64

	// MaxAvoid caps how many known items are listed in the prompt.
	MaxAvoid int
}

// DefaultConfig returns the recommended settings.
func DefaultConfig() Config {
	return Config{
		Rounds:      3,
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxAvoid:    60,
	}
}

// Generator asks a provider for items.
type Generator struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// New creates a generator. A nil logger discards output.
func New(p llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	return &Generator{provider: p, cfg: cfg, logger: logging.Component(logger, "bankgen")}
}

// Generate returns a validated bank of exactly r.Count items. When a
// reply comes up short the model is asked again for the remainder, up to
// Config.Rounds calls.
func (g *Generator) Generate(ctx context.Context, r Request) (bank.Bank, error) {
	if err := r.validate(); err != nil {
		return bank.Bank{}, err
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeBankGen)

	f := newFilter(r)
	name := r.Name
	for round := 1; round <= max(g.cfg.Rounds, 1) && len(f.kept) < r.Count; round++ {
		out, err := g.ask(ctx, r, r.Count-len(f.kept), f.known())
		if err != nil {
			return bank.Bank{}, err
		}
		if name == "" {
			name = out.Name
		}

		before := len(f.kept)
		for _, it := range out.Items {
			f.offer(bank.Item{Operand1: it.Operand1, Operand2: it.Operand2, Answer: it.Answer})
			if len(f.kept) == r.Count {
				break
			}
		}
		g.logger.Info("bank generation round",
			"topic", r.Topic, "round", round, "returned", len(out.Items),
			"kept", len(f.kept)-before, "total", len(f.kept), "want", r.Count)
	}

	for _, d := range f.dropped {
		g.logger.Debug("dropped generated item", "topic", r.Topic, "item", d.Item.Key().String(), "reason", d.Reason)
	}
	if len(f.kept) < r.Count {
		return bank.Bank{}, fmt.Errorf("topic %s: %w: got %d of %d", r.Topic, ErrTooFewItems, len(f.kept), r.Count)
	}

	if name == "" {
		name = r.Topic
	}
	b := bank.New(r.Topic, name, r.Operation, f.kept)
	if err := b.Validate(); err != nil {
		return bank.Bank{}, fmt.Errorf("generated bank: %w", err)
	}
	return b, nil
}

func (g *Generator) ask(ctx context.Context, r Request, want int, have []bank.Item) (bankOutput, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(r, want, have, g.cfg.MaxAvoid))
	req.Schema = bankSchema
	req.MaxTokens = g.cfg.MaxTokens
	req.Temperature = g.cfg.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return bankOutput{}, fmt.Errorf("generate items for %s: %w", r.Topic, err)
	}

	var out bankOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return bankOutput{}, fmt.Errorf("decode items for %s: %w", r.Topic, err)
	}
	return out, nil
}
