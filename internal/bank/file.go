package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every saved bank file. Readers accept any
// v1.x.y format.
const FormatVersion = "v1.0.0"

// ErrUnsupportedFormat is returned for bank files whose format major
// version this build cannot read.
var ErrUnsupportedFormat = errors.New("unsupported bank file format")

// File is the on-disk representation of a bank.
type File struct {
	Format      string `json:"format" yaml:"format"`
	Topic       string `json:"topic" yaml:"topic"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Operation   string `json:"operation" yaml:"operation"`
	Items       []Item `json:"items" yaml:"items"`
}

// Load reads a bank from a .yaml, .yml or .json file.
func Load(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read bank file: %w", err)
	}

	b, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a bank document. ext selects the syntax (".json" or a YAML
// extension). The document is checked against the bank file schema, the
// format version, and the arithmetic of every item.
func Parse(data []byte, ext string) (Bank, error) {
	raw, err := toJSON(data, ext)
	if err != nil {
		return Bank{}, err
	}

	if err := validateDocument(raw); err != nil {
		return Bank{}, err
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return Bank{}, fmt.Errorf("decode bank: %w", err)
	}

	if err := checkFormat(f.Format); err != nil {
		return Bank{}, err
	}

	op, err := ParseOperation(f.Operation)
	if err != nil {
		return Bank{}, err
	}

	name := f.Name
	if name == "" {
		name = f.Topic
	}

	b := New(f.Topic, name, op, f.Items)
	if err := b.Validate(); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// Save writes b to path as YAML, creating parent directories.
func Save(path string, b Bank) error {
	f := File{
		Format:    FormatVersion,
		Topic:     b.Topic,
		Name:      b.Name,
		Operation: string(b.Operation),
		Items:     b.Items(),
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bank dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write bank file: %w", err)
	}
	return nil
}

func toJSON(data []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return data, nil
	case ".yaml", ".yml", "":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported bank file extension %q", ext)
	}
}

func validateDocument(raw []byte) error {
	schema, err := bankFileSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse bank: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("bank schema: %w", err)
	}
	return nil
}

func checkFormat(format string) error {
	v := format
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedFormat, format)
	}
	if major := semver.Major(FormatVersion); semver.Major(v) != major {
		return fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedFormat, format, major)
	}
	return nil
}
