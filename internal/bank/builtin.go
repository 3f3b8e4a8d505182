package bank

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// Built-in topic identifiers.
const (
	TopicAddition       = "addition"
	TopicSubtraction    = "subtraction"
	TopicMultiplication = "multiplication"
	TopicDivision       = "division"
	TopicFactoring      = "factoring"
)

type builtinTopic struct {
	name string
	op   Operation
	gen  func() []Item
}

var builtins = map[string]builtinTopic{
	TopicAddition: {
		name: "Addition facts to 20",
		op:   OpAdd,
		gen: func() []Item {
			var items []Item
			for a := 1; a <= 10; a++ {
				for b := 1; b <= 10; b++ {
					items = append(items, Item{Operand1: a, Operand2: b, Answer: a + b})
				}
			}
			return items
		},
	},
	TopicSubtraction: {
		name: "Subtraction within 20",
		op:   OpSubtract,
		gen: func() []Item {
			var items []Item
			for a := 2; a <= 20; a++ {
				for b := 1; b < a && b <= 10; b++ {
					items = append(items, Item{Operand1: a, Operand2: b, Answer: a - b})
				}
			}
			return items
		},
	},
	TopicMultiplication: {
		name: "Times tables 2-10",
		op:   OpMultiply,
		gen: func() []Item {
			var items []Item
			for a := 2; a <= 10; a++ {
				for b := 2; b <= 10; b++ {
					items = append(items, Item{Operand1: a, Operand2: b, Answer: a * b})
				}
			}
			return items
		},
	},
	TopicDivision: {
		name: "Sharing into equal groups",
		op:   OpDivide,
		gen: func() []Item {
			var items []Item
			for b := 2; b <= 10; b++ {
				for c := 1; c <= 10; c++ {
					items = append(items, Item{Operand1: b * c, Operand2: b, Answer: c})
				}
			}
			return items
		},
	},
	TopicFactoring: {
		name: "Factor pairs to 60",
		op:   OpFactor,
		gen: func() []Item {
			var items []Item
			for n := 4; n <= 60; n++ {
				for d := 2; d*d <= n; d++ {
					if n%d == 0 {
						items = append(items, Item{Operand1: n, Operand2: d, Answer: n / d})
					}
				}
			}
			return items
		},
	},
}

// BuiltinTopics returns the built-in topic identifiers, sorted.
func BuiltinTopics() []string {
	topics := make([]string, 0, len(builtins))
	for id := range builtins {
		topics = append(topics, id)
	}
	sort.Strings(topics)
	return topics
}

// Builtin returns the built-in bank for topic. Items are in a fixed
// pseudo-random order derived from the topic name, so consecutive sets mix
// fact families while staying reproducible.
func Builtin(topic string) (Bank, error) {
	bt, ok := builtins[topic]
	if !ok {
		return Bank{}, fmt.Errorf("unknown built-in topic %q", topic)
	}
	b := New(topic, bt.name, bt.op, bt.gen())
	return b.Shuffle(topicSeed(topic)), nil
}

func topicSeed(topic string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(topic))
	return h.Sum64()
}
