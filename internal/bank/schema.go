package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const fileSchemaURL = "schema://bank-file.json"

// fileSchema is the JSON Schema every bank file must satisfy before it is
// decoded. Arithmetic checks happen afterwards in Validate.
var fileSchema = map[string]any{
	"type":     "object",
	"required": []any{"format", "topic", "operation", "items"},
	"properties": map[string]any{
		"format":      map[string]any{"type": "string", "minLength": 1},
		"topic":       map[string]any{"type": "string", "pattern": "^[a-z0-9][a-z0-9_-]*$"},
		"name":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"operation": map[string]any{
			"type": "string",
			"enum": []any{"add", "sub", "mul", "div", "factor"},
		},
		"items": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"operand1", "operand2", "answer"},
				"properties": map[string]any{
					"operand1": map[string]any{"type": "integer"},
					"operand2": map[string]any{"type": "integer"},
					"answer":   map[string]any{"type": "integer"},
					"prompt":   map[string]any{"type": "string"},
					"extra": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "string"},
					},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func bankFileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so every number is a json.Number.
		raw, err := json.Marshal(fileSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(fileSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(fileSchemaURL)
	})
	return compiledSchema, compileErr
}
