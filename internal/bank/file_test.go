package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rocketYAML = `format: v1.0.0
topic: rocket-sums
name: Rocket sums
operation: add
items:
  - operand1: 3
    operand2: 4
    answer: 7
  - operand1: 8
    operand2: 5
    answer: 13
    prompt: "Booster 8 plus booster 5?"
    extra:
      sprite: booster
`

func TestParseYAML(t *testing.T) {
	b, err := Parse([]byte(rocketYAML), ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "rocket-sums", b.Topic)
	assert.Equal(t, "Rocket sums", b.Name)
	assert.Equal(t, OpAdd, b.Operation)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "Booster 8 plus booster 5?", b.Text(b.At(1)))
	assert.Equal(t, "booster", b.At(1).Extra["sprite"])
}

func TestParseJSON(t *testing.T) {
	doc := `{"format":"1.2.0","topic":"pairs","operation":"factor",
		"items":[{"operand1":12,"operand2":3,"answer":4}]}`

	b, err := Parse([]byte(doc), ".json")
	require.NoError(t, err)
	assert.Equal(t, "pairs", b.Name)
	assert.Equal(t, "12 = 3 × ?", b.Text(b.At(0)))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{
			name: "future major format",
			doc:  `{"format":"v2.0.0","topic":"x","operation":"add","items":[{"operand1":1,"operand2":1,"answer":2}]}`,
			is:   ErrUnsupportedFormat,
		},
		{
			name: "garbage format",
			doc:  `{"format":"latest","topic":"x","operation":"add","items":[{"operand1":1,"operand2":1,"answer":2}]}`,
			is:   ErrUnsupportedFormat,
		},
		{
			name: "missing items",
			doc:  `{"format":"v1.0.0","topic":"x","operation":"add"}`,
		},
		{
			name: "unknown operation",
			doc:  `{"format":"v1.0.0","topic":"x","operation":"pow","items":[{"operand1":1,"operand2":1,"answer":2}]}`,
		},
		{
			name: "non-integer operand",
			doc:  `{"format":"v1.0.0","topic":"x","operation":"add","items":[{"operand1":1.5,"operand2":1,"answer":2.5}]}`,
		},
		{
			name: "unknown field",
			doc:  `{"format":"v1.0.0","topic":"x","operation":"add","level":3,"items":[{"operand1":1,"operand2":1,"answer":2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), ".json")
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseRejectsWrongArithmetic(t *testing.T) {
	doc := `{"format":"v1.0.0","topic":"x","operation":"mul","items":[{"operand1":3,"operand2":3,"answer":10}]}`

	_, err := Parse([]byte(doc), ".json")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 1)
}

func TestParseUnknownExtension(t *testing.T) {
	_, err := Parse([]byte(rocketYAML), ".toml")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rocket.yaml")

	orig, err := Parse([]byte(rocketYAML), ".yaml")
	require.NoError(t, err)
	require.NoError(t, Save(path, orig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: v1.0.0")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Topic, loaded.Topic)
	assert.Equal(t, orig.Items(), loaded.Items())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
