package placement

import (
	"errors"
	"fmt"
	"sort"
)

// #region constants

// MaxGridSize bounds crafting grids in every discipline. Stations never
// exceed 9 rows or 9 columns.
const MaxGridSize = 9

// #endregion constants

// #region errors

var (
	// ErrDuplicateCell is returned when two entries share a grid cell.
	ErrDuplicateCell = errors.New("duplicate cell")
	// ErrTierOutOfRange is returned when an entry's tier is outside 1..maxTier.
	ErrTierOutOfRange = errors.New("tier out of range")
	// ErrOutOfGrid is returned when an entry lies outside the station grid.
	ErrOutOfGrid = errors.New("entry outside grid")
)

// #endregion errors

// #region types

// Entry is one placed material on the station grid.
type Entry struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Material string `json:"material"`
	Tier     int    `json:"tier"`
}

// Placement is an ordered set of placed materials. It is created fresh per
// validation request and treated as immutable once normalized.
type Placement struct {
	Entries []Entry
}

// Bounds is the inclusive bounding box of a non-empty placement.
type Bounds struct {
	MinRow, MinCol int
	MaxRow, MaxCol int
}

// RowSpan returns the number of rows the bounding box covers.
func (b Bounds) RowSpan() int { return b.MaxRow - b.MinRow + 1 }

// ColSpan returns the number of columns the bounding box covers.
func (b Bounds) ColSpan() int { return b.MaxCol - b.MinCol + 1 }

// #endregion types

// #region constructor

// New copies the given entries into a Placement. The caller's slice is never
// retained or mutated.
func New(entries []Entry) Placement {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return Placement{Entries: out}
}

// #endregion constructor

// #region normalize

// Normalize sorts entries into row-major order (row ascending, column
// ascending within a row) and checks structural invariants: no two entries
// share a cell, every entry lies on the grid, every tier is within
// 1..maxTier. Row-major order is part of the encoding contract, so
// normalization happens exactly once, before any encoder runs.
func (p *Placement) Normalize(maxTier int) error {
	sort.SliceStable(p.Entries, func(i, j int) bool {
		a, b := p.Entries[i], p.Entries[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	for i, e := range p.Entries {
		if e.Row < 0 || e.Row >= MaxGridSize || e.Col < 0 || e.Col >= MaxGridSize {
			return fmt.Errorf("%w: entry %d at (%d,%d)", ErrOutOfGrid, i, e.Row, e.Col)
		}
		if e.Tier < 1 || e.Tier > maxTier {
			return fmt.Errorf("%w: entry %d tier %d (valid 1..%d)", ErrTierOutOfRange, i, e.Tier, maxTier)
		}
		if i > 0 {
			prev := p.Entries[i-1]
			if prev.Row == e.Row && prev.Col == e.Col {
				return fmt.Errorf("%w: (%d,%d)", ErrDuplicateCell, e.Row, e.Col)
			}
		}
	}
	return nil
}

// #endregion normalize

// #region accessors

// Empty reports whether the placement has no entries. An empty placement is
// valid input: it encodes to an all-zero tensor or all-sentinel vector.
func (p Placement) Empty() bool {
	return len(p.Entries) == 0
}

// BoundingBox returns the inclusive bounds of the placement's occupied cells.
// ok is false for an empty placement.
func (p Placement) BoundingBox() (Bounds, bool) {
	if p.Empty() {
		return Bounds{}, false
	}
	b := Bounds{
		MinRow: p.Entries[0].Row, MaxRow: p.Entries[0].Row,
		MinCol: p.Entries[0].Col, MaxCol: p.Entries[0].Col,
	}
	for _, e := range p.Entries[1:] {
		if e.Row < b.MinRow {
			b.MinRow = e.Row
		}
		if e.Row > b.MaxRow {
			b.MaxRow = e.Row
		}
		if e.Col < b.MinCol {
			b.MinCol = e.Col
		}
		if e.Col > b.MaxCol {
			b.MaxCol = e.Col
		}
	}
	return b, true
}

// #endregion accessors
