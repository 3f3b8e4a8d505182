package bank

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownTopic is returned when no bank is registered for a topic.
var ErrUnknownTopic = errors.New("unknown topic")

// SourceBuiltin marks banks that ship with the binary.
const SourceBuiltin = "builtin"

// Entry is a registered bank and where it came from.
type Entry struct {
	Bank   Bank
	Source string
}

// Registry maps topics to banks. Later registrations replace earlier ones,
// so files loaded from a bank directory override the built-ins.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// DefaultRegistry returns the built-in banks overlaid with every bank file
// in dir. An empty or missing dir yields only the built-ins.
func DefaultRegistry(dir string) (*Registry, error) {
	r := NewRegistry()
	for _, topic := range BuiltinTopics() {
		b, err := Builtin(topic)
		if err != nil {
			return nil, err
		}
		r.Add(b, SourceBuiltin)
	}
	if dir == "" {
		return r, nil
	}
	if err := r.LoadDir(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers b under its topic.
func (r *Registry) Add(b Bank, source string) {
	r.entries[b.Topic] = Entry{Bank: b, Source: source}
}

// LoadDir registers every .yaml, .yml and .json file directly inside dir.
// A missing directory is not an error.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bank dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !IsBankFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := Load(path)
		if err != nil {
			return err
		}
		r.Add(b, path)
	}
	return nil
}

// Get returns the bank registered for topic.
func (r *Registry) Get(topic string) (Bank, error) {
	e, ok := r.entries[topic]
	if !ok {
		return Bank{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	return e.Bank, nil
}

// Lookup returns the registry entry for topic.
func (r *Registry) Lookup(topic string) (Entry, bool) {
	e, ok := r.entries[topic]
	return e, ok
}

// Topics returns the registered topics, sorted.
func (r *Registry) Topics() []string {
	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsBankFile reports whether name has a bank file extension.
func IsBankFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
