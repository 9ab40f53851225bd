package category

import (
	"errors"
	"fmt"
)

// #region errors

var (
	// ErrUnknownCategory is returned when a category name is outside the table's domain.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownTier is returned when a tier is outside the table's domain.
	ErrUnknownTier = errors.New("unknown tier")
)

// #endregion errors

// #region table

// Table is the process-wide category lookup shared by all encoders.
// Hue and intensity values are part of the trained classifier's contract:
// changing any of them invalidates every previously trained model, so the
// table carries a version string and is immutable after construction.
type Table struct {
	version     string
	hues        map[string]float64
	intensities map[int]float64
	order       []string
}

// #endregion table

// #region constructor

// NewTable validates the raw definition and builds an immutable Table.
// Validation failures here are configuration errors: the process should not
// start with a malformed table.
func NewTable(version string, hues map[string]float64, intensities map[int]float64, order []string) (*Table, error) {
	if version == "" {
		return nil, fmt.Errorf("category table: empty version")
	}
	if len(hues) == 0 {
		return nil, fmt.Errorf("category table %s: no categories", version)
	}
	for name, hue := range hues {
		if name == "" {
			return nil, fmt.Errorf("category table %s: empty category name", version)
		}
		if hue < 0 || hue >= 360 {
			return nil, fmt.Errorf("category table %s: category %s hue %.1f outside [0,360)", version, name, hue)
		}
	}
	if len(order) != len(hues) {
		return nil, fmt.Errorf("category table %s: order lists %d categories, table has %d", version, len(order), len(hues))
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := hues[name]; !ok {
			return nil, fmt.Errorf("category table %s: ordered category %s has no hue", version, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("category table %s: category %s listed twice in order", version, name)
		}
		seen[name] = true
	}
	if len(intensities) == 0 {
		return nil, fmt.Errorf("category table %s: no tiers", version)
	}
	for tier := 1; tier <= len(intensities); tier++ {
		v, ok := intensities[tier]
		if !ok {
			return nil, fmt.Errorf("category table %s: tier %d missing (tiers must be contiguous from 1)", version, tier)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("category table %s: tier %d intensity %.2f outside [0,1]", version, tier, v)
		}
	}

	t := &Table{
		version:     version,
		hues:        make(map[string]float64, len(hues)),
		intensities: make(map[int]float64, len(intensities)),
		order:       make([]string, len(order)),
	}
	for k, v := range hues {
		t.hues[k] = v
	}
	for k, v := range intensities {
		t.intensities[k] = v
	}
	copy(t.order, order)
	return t, nil
}

// #endregion constructor

// #region lookups

// Version returns the table's version string.
func (t *Table) Version() string {
	return t.version
}

// HueOf returns the hue in degrees [0,360) for a category.
func (t *Table) HueOf(cat string) (float64, error) {
	hue, ok := t.hues[cat]
	if !ok {
		return 0, fmt.Errorf("%w: %s (table %s)", ErrUnknownCategory, cat, t.version)
	}
	return hue, nil
}

// IntensityOf returns the normalized intensity [0,1] for a tier.
func (t *Table) IntensityOf(tier int) (float64, error) {
	v, ok := t.intensities[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %d (table %s)", ErrUnknownTier, tier, t.version)
	}
	return v, nil
}

// MaxTier returns the highest tier the table defines.
func (t *Table) MaxTier() int {
	return len(t.intensities)
}

// Ordered returns the canonical category ordering. The slice is a copy;
// callers may not rely on mutating it.
func (t *Table) Ordered() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// #endregion lookups

// #region default-table

// DefaultTableVersion identifies the table every shipped classifier was
// trained against.
const DefaultTableVersion = "craftsense-v1"

// DefaultTable returns the built-in table matching DefaultTableVersion.
func DefaultTable() *Table {
	t, err := NewTable(
		DefaultTableVersion,
		map[string]float64{
			"elemental":    280,
			"metal":        210,
			"monster_drop": 0,
			"stone":        30,
			"wood":         120,
			"herb":         90,
			"crystal":      180,
			"bone":         45,
			"cloth":        330,
			"essence":      250,
		},
		map[int]float64{
			1: 0.50,
			2: 0.65,
			3: 0.80,
			4: 0.95,
		},
		[]string{
			"elemental", "metal", "monster_drop", "stone", "wood",
			"herb", "crystal", "bone", "cloth", "essence",
		},
	)
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// broken binary, not a runtime condition.
		panic(fmt.Sprintf("built-in category table invalid: %v", err))
	}
	return t
}

// #endregion default-table
