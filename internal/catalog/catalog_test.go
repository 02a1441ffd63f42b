package catalog

import "testing"

func TestEras_Count(t *testing.T) {
	if len(Eras()) != 8 {
		t.Errorf("expected 8 eras, got %d", len(Eras()))
	}
}

func TestEras_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Eras() {
		if seen[e.ID] {
			t.Errorf("duplicate era id %q", e.ID)
		}
		seen[e.ID] = true

		if e.Label == "" {
			t.Errorf("era %q has empty label", e.ID)
		}
		if e.PromptFragment == "" {
			t.Errorf("era %q has empty prompt fragment", e.ID)
		}
		if e.Icon == "" {
			t.Errorf("era %q has empty icon", e.ID)
		}
	}
}

func TestEraByID(t *testing.T) {
	era, ok := EraByID("viking")
	if !ok {
		t.Fatal("expected viking era to exist")
	}
	if era.Label != "Viking Age" {
		t.Errorf("expected label 'Viking Age', got %q", era.Label)
	}

	if _, ok := EraByID("atlantis"); ok {
		t.Error("expected lookup of unknown era to fail")
	}
}

func TestEras_ReturnsCopy(t *testing.T) {
	a := Eras()
	a[0].Label = "mutated"
	b := Eras()
	if b[0].Label == "mutated" {
		t.Error("Eras must return a copy, not the backing slice")
	}
}

func TestFilters_Count(t *testing.T) {
	if len(Filters()) != 6 {
		t.Errorf("expected 6 filters, got %d", len(Filters()))
	}
}

func TestFilters_IncludesIdentity(t *testing.T) {
	f, ok := FilterByID("none")
	if !ok {
		t.Fatal("expected identity filter to exist")
	}
	if f.Transform != "none" {
		t.Errorf("expected identity transform 'none', got %q", f.Transform)
	}
}

func TestFilterByID_Unknown(t *testing.T) {
	if _, ok := FilterByID("glitch"); ok {
		t.Error("expected lookup of unknown filter to fail")
	}
}
