package category

import (
	"errors"
	"testing"
)

// 1. Default table resolves every built-in category and tier.
func TestDefaultTable_Lookups(t *testing.T) {
	tbl := DefaultTable()

	hue, err := tbl.HueOf("metal")
	if err != nil {
		t.Fatalf("HueOf(metal): %v", err)
	}
	if hue != 210 {
		t.Errorf("expected metal hue 210, got %v", hue)
	}

	intensity, err := tbl.IntensityOf(1)
	if err != nil {
		t.Fatalf("IntensityOf(1): %v", err)
	}
	if intensity != 0.50 {
		t.Errorf("expected tier 1 intensity 0.50, got %v", intensity)
	}
	intensity, err = tbl.IntensityOf(4)
	if err != nil {
		t.Fatalf("IntensityOf(4): %v", err)
	}
	if intensity != 0.95 {
		t.Errorf("expected tier 4 intensity 0.95, got %v", intensity)
	}

	if tbl.MaxTier() != 4 {
		t.Errorf("expected max tier 4, got %d", tbl.MaxTier())
	}
	if tbl.Version() != DefaultTableVersion {
		t.Errorf("expected version %s, got %s", DefaultTableVersion, tbl.Version())
	}
}

// 2. Lookups outside the declared domain fail with the typed sentinels.
func TestTable_UnknownDomain(t *testing.T) {
	tbl := DefaultTable()

	if _, err := tbl.HueOf("plasma"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := tbl.IntensityOf(5); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("expected ErrUnknownTier, got %v", err)
	}
	if _, err := tbl.IntensityOf(0); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("expected ErrUnknownTier for tier 0, got %v", err)
	}
}

// 3. Ordered returns the canonical order and a defensive copy.
func TestTable_Ordered(t *testing.T) {
	tbl := DefaultTable()

	order := tbl.Ordered()
	if len(order) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(order))
	}
	if order[0] != "elemental" || order[1] != "metal" {
		t.Errorf("unexpected canonical order head: %v", order[:2])
	}

	order[0] = "mutated"
	if tbl.Ordered()[0] != "elemental" {
		t.Error("Ordered must return a copy, not the internal slice")
	}
}

// 4. Construction rejects malformed tables: these are configuration errors.
func TestNewTable_Validation(t *testing.T) {
	hues := map[string]float64{"metal": 210}
	tiers := map[int]float64{1: 0.5}

	cases := []struct {
		name        string
		version     string
		hues        map[string]float64
		intensities map[int]float64
		order       []string
	}{
		{"empty version", "", hues, tiers, []string{"metal"}},
		{"hue out of range", "v", map[string]float64{"metal": 360}, tiers, []string{"metal"}},
		{"negative hue", "v", map[string]float64{"metal": -1}, tiers, []string{"metal"}},
		{"intensity out of range", "v", hues, map[int]float64{1: 1.5}, []string{"metal"}},
		{"tier gap", "v", hues, map[int]float64{2: 0.5}, []string{"metal"}},
		{"order missing category", "v", hues, tiers, []string{"wood"}},
		{"order wrong length", "v", hues, tiers, []string{}},
		{"no categories", "v", map[string]float64{}, tiers, []string{}},
	}
	for _, c := range cases {
		if _, err := NewTable(c.version, c.hues, c.intensities, c.order); err == nil {
			t.Errorf("%s: expected construction error", c.name)
		}
	}
}

// 5. YAML round trip: a document parses into a working table.
func TestParseTable_YAML(t *testing.T) {
	doc := []byte(`
version: test-v2
categories:
  - name: metal
    hue: 210
  - name: wood
    hue: 120
tiers:
  - tier: 1
    intensity: 0.4
  - tier: 2
    intensity: 0.8
`)
	tbl, err := ParseTable(doc)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if tbl.Version() != "test-v2" {
		t.Errorf("expected version test-v2, got %s", tbl.Version())
	}
	hue, err := tbl.HueOf("wood")
	if err != nil || hue != 120 {
		t.Errorf("expected wood hue 120, got %v (%v)", hue, err)
	}
	order := tbl.Ordered()
	if order[0] != "metal" || order[1] != "wood" {
		t.Errorf("document order must be canonical order, got %v", order)
	}
}

// 6. Duplicate categories in a YAML document are rejected.
func TestParseTable_DuplicateCategory(t *testing.T) {
	doc := []byte(`
version: test
categories:
  - name: metal
    hue: 210
  - name: metal
    hue: 30
tiers:
  - tier: 1
    intensity: 0.5
`)
	if _, err := ParseTable(doc); err == nil {
		t.Error("expected duplicate category error")
	}
}
