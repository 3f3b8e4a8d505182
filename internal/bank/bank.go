package bank

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrEmptyBank is returned when a bank has no items.
var ErrEmptyBank = errors.New("bank has no items")

// Bank is a fixed, ordered sequence of practice items for one topic.
// The zero value is an empty bank. A Bank is never mutated after
// construction; accessors hand out copies.
type Bank struct {
	Topic     string
	Name      string
	Operation Operation
	items     []Item
}

// New creates a bank holding a copy of items.
func New(topic, name string, op Operation, items []Item) Bank {
	cp := make([]Item, len(items))
	for i, it := range items {
		cp[i] = it.clone()
	}
	return Bank{Topic: topic, Name: name, Operation: op, items: cp}
}

// Len returns the number of items in the bank.
func (b Bank) Len() int {
	return len(b.items)
}

// Items returns a copy of the bank's items in order.
func (b Bank) Items() []Item {
	out := make([]Item, len(b.items))
	for i, it := range b.items {
		out[i] = it.clone()
	}
	return out
}

// At returns the item at index i.
func (b Bank) At(i int) Item {
	return b.items[i].clone()
}

// Text renders the prompt for item using the bank's operation.
func (b Bank) Text(item Item) string {
	return item.Text(b.Operation)
}

// Shuffle returns a new bank with the items permuted by a seeded PCG source.
// The same seed always yields the same order.
func (b Bank) Shuffle(seed uint64) Bank {
	items := b.Items()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return Bank{Topic: b.Topic, Name: b.Name, Operation: b.Operation, items: items}
}

// ValidationError lists every problem found in a bank.
type ValidationError struct {
	Topic    string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bank %q invalid: %s", e.Topic, strings.Join(e.Problems, "; "))
}

// Validate checks that the bank is non-empty, every item is arithmetically
// consistent with the operation, and no identity appears twice.
func (b Bank) Validate() error {
	if b.Topic == "" {
		return &ValidationError{Problems: []string{"topic is required"}}
	}
	if len(b.items) == 0 {
		return fmt.Errorf("bank %q: %w", b.Topic, ErrEmptyBank)
	}

	var problems []string
	seen := make(map[Key]int, len(b.items))
	for i, it := range b.items {
		if !it.Consistent(b.Operation) {
			problems = append(problems, fmt.Sprintf("item %d (%s) is not a valid %s fact", i, it.Key(), b.Operation))
		}
		if first, dup := seen[it.Key()]; dup {
			problems = append(problems, fmt.Sprintf("item %d duplicates item %d (%s)", i, first, it.Key()))
			continue
		}
		seen[it.Key()] = i
	}

	if len(problems) > 0 {
		return &ValidationError{Topic: b.Topic, Problems: problems}
	}
	return nil
}
