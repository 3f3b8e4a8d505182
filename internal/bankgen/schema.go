package bankgen

import "github.com/abhisek/mathiz-arcade/internal/llm"

// bankSchema is the structured reply the model must return.
var bankSchema = &llm.Schema{
	Name:        "item-bank",
	Description: "A list of arithmetic practice items for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "A short display name for the bank, e.g. \"Doubles to 20\"",
			},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"operand1": map[string]any{"type": "integer"},
						"operand2": map[string]any{"type": "integer"},
						"answer":   map[string]any{"type": "integer"},
					},
					"required":             []any{"operand1", "operand2", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"name", "items"},
		"additionalProperties": false,
	},
}

type bankOutput struct {
	Name  string       `json:"name"`
	Items []itemOutput `json:"items"`
}

type itemOutput struct {
	Operand1 int `json:"operand1"`
	Operand2 int `json:"operand2"`
	Answer   int `json:"answer"`
}
