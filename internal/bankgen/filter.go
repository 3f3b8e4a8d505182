package bankgen

import "github.com/abhisek/mathiz-arcade/internal/bank"

// Rejection is a generated item that was dropped, and why.
type Rejection struct {
	Item   bank.Item
	Reason string
}

// filter accumulates the usable items of a generation run.
type filter struct {
	req     Request
	seen    map[bank.Key]bool
	kept    []bank.Item
	dropped []Rejection
}

func newFilter(r Request) *filter {
	f := &filter{req: r, seen: make(map[bank.Key]bool, len(r.Avoid)+r.Count)}
	for _, it := range r.Avoid {
		f.seen[it.Key()] = true
	}
	return f
}

// offer keeps it when it passes every check and reports whether it did.
func (f *filter) offer(it bank.Item) bool {
	if reason := f.check(it); reason != "" {
		f.dropped = append(f.dropped, Rejection{Item: it, Reason: reason})
		return false
	}
	f.seen[it.Key()] = true
	f.kept = append(f.kept, it)
	return true
}

func (f *filter) check(it bank.Item) string {
	op := f.req.Operation
	if !it.Consistent(op) {
		return "wrong answer"
	}
	if !f.inRange(it) {
		return "out of range"
	}
	if op == bank.OpSubtract && it.Answer < 0 {
		return "negative difference"
	}
	if f.seen[it.Key()] {
		return "duplicate"
	}
	return ""
}

// inRange applies the operand bounds. Division and factoring items bound
// the divisor and quotient, the dividend follows from them.
func (f *filter) inRange(it bank.Item) bool {
	in := func(n int) bool { return n >= f.req.Min && n <= f.req.Max }
	switch f.req.Operation {
	case bank.OpDivide, bank.OpFactor:
		return in(it.Operand2) && in(it.Answer)
	default:
		return in(it.Operand1) && in(it.Operand2)
	}
}

// known returns every item the model should not repeat.
func (f *filter) known() []bank.Item {
	out := make([]bank.Item, 0, len(f.req.Avoid)+len(f.kept))
	out = append(out, f.req.Avoid...)
	return append(out, f.kept...)
}
