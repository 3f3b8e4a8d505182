package bankgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

const systemPrompt = `You write arithmetic practice items for a children's math arcade.

Rules:
- Every item is a single fact: operand1, operand2 and the correct answer.
- The answer must be exactly right. Items are checked and wrong ones are thrown away.
- Keep operands inside the requested range.
- Never repeat an item, and never repeat one from the "already have" list.
- Order items from easier to harder.`

// operationRules explains how operands relate to the answer for op.
var operationRules = map[bank.Operation]string{
	bank.OpAdd:      "answer = operand1 + operand2. Both operands are in range.",
	bank.OpSubtract: "answer = operand1 - operand2. Both operands are in range and operand1 >= operand2, so answers are never negative.",
	bank.OpMultiply: "answer = operand1 * operand2. Both operands are in range.",
	bank.OpDivide:   "answer = operand1 / operand2 with no remainder. operand2 and the answer are in range and operand2 is never 0.",
	bank.OpFactor:   "operand1 = operand2 * answer: the player is shown operand1 and one factor (operand2) and finds the other. operand2 and the answer are in range and never 0.",
}

func buildUserMessage(r Request, want int, have []bank.Item, maxAvoid int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", r.Topic)
	if r.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
	}
	fmt.Fprintf(&b, "Operation: %s\n", r.Operation)
	fmt.Fprintf(&b, "Rule: %s\n", operationRules[r.Operation])
	fmt.Fprintf(&b, "Operand range: %d to %d\n", r.Min, r.Max)
	fmt.Fprintf(&b, "Items wanted: %d\n", want)

	b.WriteString("\nAlready have (operand1,operand2=answer):\n")
	b.WriteString(formatItems(have, maxAvoid))
	return b.String()
}

// formatItems lists the most recent max items, or "None".
func formatItems(items []bank.Item, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.Key().String()
	}
	return strings.Join(parts, "\n")
}
