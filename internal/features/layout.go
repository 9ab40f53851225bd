package features

import "fmt"

// #region stats

// Stat identifies one per-category statistic slot.
type Stat string

const (
	StatCount        Stat = "count"
	StatMeanTier     Stat = "mean_tier"
	StatTierVariance Stat = "tier_variance"
	StatMaxTier      Stat = "max_tier"
	StatMinTier      Stat = "min_tier"
)

// #endregion stats

// #region layout

// GlobalSlots is the fixed trailing block every layout ends with:
// total count, overall mean tier, bounding-box row span, col span.
const GlobalSlots = 4

// Layout fixes a discipline's feature-vector contract: the category
// enumeration order, the statistic block per category, and thereby the total
// vector length. The order is the order the classifier was trained on; it
// is not derived from the placement and not alphabetical.
type Layout struct {
	Discipline string
	Categories []string
	Stats      []Stat
}

// Length returns the fixed vector length for this layout.
func (l Layout) Length() int {
	return len(l.Categories)*len(l.Stats) + GlobalSlots
}

// Slots returns one label per vector position, e.g. "metal.count". Used by
// the inspect tooling and fixture diagnostics.
func (l Layout) Slots() []string {
	out := make([]string, 0, l.Length())
	for _, cat := range l.Categories {
		for _, s := range l.Stats {
			out = append(out, fmt.Sprintf("%s.%s", cat, s))
		}
	}
	out = append(out, "global.total_count", "global.mean_tier", "global.row_span", "global.col_span")
	return out
}

// #endregion layout

// #region discipline-layouts

// Layouts for the three tree-based disciplines. Lengths (19, 28, 34) are part
// of the trained classifier contracts.
var (
	WoodworkingLayout = Layout{
		Discipline: "woodworking",
		Categories: []string{"elemental", "metal", "monster_drop", "stone", "wood"},
		Stats:      []Stat{StatCount, StatMeanTier, StatTierVariance},
	}

	CookingLayout = Layout{
		Discipline: "cooking",
		Categories: []string{"herb", "wood", "monster_drop", "stone", "elemental", "bone"},
		Stats:      []Stat{StatCount, StatMeanTier, StatTierVariance, StatMaxTier},
	}

	RunecarvingLayout = Layout{
		Discipline: "runecarving",
		Categories: []string{"crystal", "essence", "stone", "metal", "bone", "elemental"},
		Stats:      []Stat{StatCount, StatMeanTier, StatTierVariance, StatMaxTier, StatMinTier},
	}
)

// #endregion discipline-layouts
