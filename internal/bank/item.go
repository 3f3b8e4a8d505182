package bank

import (
	"fmt"
	"strings"
)

// Operation is the arithmetic relation between an item's operands and answer.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "sub"
	OpMultiply Operation = "mul"
	OpDivide   Operation = "div"

	// OpFactor items ask for the missing factor: Operand1 = Operand2 × Answer.
	OpFactor Operation = "factor"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide, OpFactor}

// ParseOperation converts a string into an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// Symbol returns the operator glyph shown in prompts.
func (o Operation) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply, OpFactor:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return "?"
	}
}

// Item is a single practice question.
//
// Operand1, Operand2 and Answer form the item's identity; Prompt and Extra
// are carried through untouched.
type Item struct {
	Operand1 int               `json:"operand1" yaml:"operand1"`
	Operand2 int               `json:"operand2" yaml:"operand2"`
	Answer   int               `json:"answer" yaml:"answer"`
	Prompt   string            `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Extra    map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Key is the comparable identity of an Item.
type Key struct {
	Operand1 int
	Operand2 int
	Answer   int
}

// String renders the key as "a,b=c" for logs and storage.
func (k Key) String() string {
	return fmt.Sprintf("%d,%d=%d", k.Operand1, k.Operand2, k.Answer)
}

// Key returns the item's identity.
func (i Item) Key() Key {
	return Key{Operand1: i.Operand1, Operand2: i.Operand2, Answer: i.Answer}
}

// Same reports whether two items share an identity.
func (i Item) Same(other Item) bool {
	return i.Key() == other.Key()
}

// Text returns the prompt shown to the player. A custom Prompt wins over
// the rendered equation.
func (i Item) Text(op Operation) string {
	if i.Prompt != "" {
		return i.Prompt
	}
	if op == OpFactor {
		return fmt.Sprintf("%d = %d × ?", i.Operand1, i.Operand2)
	}
	return fmt.Sprintf("%d %s %d = ?", i.Operand1, op.Symbol(), i.Operand2)
}

// Consistent reports whether the answer is arithmetically correct for op.
func (i Item) Consistent(op Operation) bool {
	switch op {
	case OpAdd:
		return i.Operand1+i.Operand2 == i.Answer
	case OpSubtract:
		return i.Operand1-i.Operand2 == i.Answer
	case OpMultiply:
		return i.Operand1*i.Operand2 == i.Answer
	case OpDivide:
		return i.Operand2 != 0 && i.Operand2*i.Answer == i.Operand1
	case OpFactor:
		return i.Operand2 != 0 && i.Operand2*i.Answer == i.Operand1
	default:
		return false
	}
}

// clone returns a copy whose Extra map is not shared with i.
func (i Item) clone() Item {
	if i.Extra == nil {
		return i
	}
	extra := make(map[string]string, len(i.Extra))
	for k, v := range i.Extra {
		extra[k] = v
	}
	i.Extra = extra
	return i
}
