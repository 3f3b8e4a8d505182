package bankgen

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/llm"
)

// Offline returns a handler for llm.MockProvider that answers bank
// requests for r with seeded random facts, so the generate pipeline can
// run without a model.
func Offline(r Request, seed uint64) func(llm.Request) (json.RawMessage, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x6a09e667f3bcc909))
	return func(llm.Request) (json.RawMessage, error) {
		out := bankOutput{Name: r.Name}
		if out.Name == "" {
			out.Name = r.Topic
		}
		for range r.Count {
			out.Items = append(out.Items, randomItem(rng, r))
		}
		return json.Marshal(out)
	}
}

func randomItem(rng *rand.Rand, r Request) itemOutput {
	pick := func(lo int) int {
		lo = max(lo, r.Min)
		if lo > r.Max {
			return lo
		}
		return lo + rng.IntN(r.Max-lo+1)
	}

	switch r.Operation {
	case bank.OpAdd:
		a, b := pick(r.Min), pick(r.Min)
		return itemOutput{Operand1: a, Operand2: b, Answer: a + b}
	case bank.OpSubtract:
		a, b := pick(r.Min), pick(r.Min)
		if a < b {
			a, b = b, a
		}
		return itemOutput{Operand1: a, Operand2: b, Answer: a - b}
	case bank.OpMultiply:
		a, b := pick(r.Min), pick(r.Min)
		return itemOutput{Operand1: a, Operand2: b, Answer: a * b}
	default:
		d, q := pick(1), pick(1)
		return itemOutput{Operand1: d * q, Operand2: d, Answer: q}
	}
}
