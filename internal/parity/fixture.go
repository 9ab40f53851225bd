package parity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a golden parity fixture.
// The harness treats it as an opaque format: exact field presence, no
// versioning logic.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase stores one recorded placement with its expected encoding and,
// optionally, its expected verdict.
type FixtureCase struct {
	CaseID     string           `json:"case_id"`
	Discipline string           `json:"discipline"`
	Placement  []FixtureEntry   `json:"placement"`
	Expected   FixtureEncoded   `json:"expected"`
	Verdict    *FixtureVerdict  `json:"expected_verdict,omitempty"`
}

// FixtureEntry mirrors placement.Entry with JSON tags.
type FixtureEntry struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Material string `json:"material"`
	Tier     int    `json:"tier"`
}

// FixtureEncoded is a flat numeric array with its declared shape.
type FixtureEncoded struct {
	Shape  []int     `json:"shape"`
	Values []float64 `json:"values"`
}

// FixtureVerdict mirrors classifier.Verdict with JSON tags.
type FixtureVerdict struct {
	IsValid    bool    `json:"is_valid"`
	Confidence float64 `json:"confidence"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON golden fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	for i, c := range f.Cases {
		if c.CaseID == "" {
			return nil, fmt.Errorf("fixture %s: case %d has no case_id", path, i)
		}
		if len(c.Expected.Values) == 0 {
			return nil, fmt.Errorf("fixture %s: case %s has no expected values", path, c.CaseID)
		}
	}
	return &f, nil
}

// ToPlacement converts a fixture case's recorded entries to a Placement.
func (c *FixtureCase) ToPlacement() placement.Placement {
	entries := make([]placement.Entry, len(c.Placement))
	for i, e := range c.Placement {
		entries[i] = placement.Entry{Row: e.Row, Col: e.Col, Material: e.Material, Tier: e.Tier}
	}
	return placement.New(entries)
}

// #endregion fixture-loader
