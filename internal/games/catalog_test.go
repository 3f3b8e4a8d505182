package games

import (
	"testing"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

func TestCatalogTopicsExist(t *testing.T) {
	reg, err := bank.DefaultRegistry("")
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	seen := make(map[string]bool)
	for _, g := range All() {
		if seen[g.ID] {
			t.Errorf("duplicate game id %q", g.ID)
		}
		seen[g.ID] = true

		if g.RequiredCorrect <= 0 {
			t.Errorf("%s: RequiredCorrect = %d", g.ID, g.RequiredCorrect)
		}
		if g.MaxQuestions() < g.RequiredCorrect {
			t.Errorf("%s: budget %d below target %d", g.ID, g.MaxQuestions(), g.RequiredCorrect)
		}
		if _, err := reg.Get(g.Topic); err != nil {
			t.Errorf("%s: topic %q has no bank: %v", g.ID, g.Topic, err)
		}
	}
}

func TestLookup(t *testing.T) {
	g, err := Lookup(" Racing ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if g.Topic != bank.TopicAddition {
		t.Errorf("racing topic = %q, want %q", g.Topic, bank.TopicAddition)
	}

	if _, err := Lookup("bowling"); err == nil {
		t.Error("Lookup(bowling) succeeded, want error")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "changed"
	if All()[0].Name == "changed" {
		t.Error("All exposes the package catalog")
	}
	if len(IDs()) != len(a) {
		t.Errorf("IDs length %d, All length %d", len(IDs()), len(a))
	}
}
