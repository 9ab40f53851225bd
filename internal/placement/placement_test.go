package placement

import (
	"errors"
	"testing"
)

// helper: placement with entries given as (row, col, tier) using one material.
func grid(cells ...[3]int) Placement {
	entries := make([]Entry, len(cells))
	for i, c := range cells {
		entries[i] = Entry{Row: c[0], Col: c[1], Material: "iron_ingot", Tier: c[2]}
	}
	return New(entries)
}

// 1. Normalize sorts into row-major order regardless of input order.
func TestNormalize_RowMajorOrder(t *testing.T) {
	p := grid([3]int{2, 1, 1}, [3]int{0, 3, 1}, [3]int{2, 0, 1}, [3]int{0, 0, 1})
	if err := p.Normalize(4); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := [][2]int{{0, 0}, {0, 3}, {2, 0}, {2, 1}}
	for i, w := range want {
		if p.Entries[i].Row != w[0] || p.Entries[i].Col != w[1] {
			t.Errorf("entry %d: expected (%d,%d), got (%d,%d)",
				i, w[0], w[1], p.Entries[i].Row, p.Entries[i].Col)
		}
	}
}

// 2. Two entries on the same cell fail with ErrDuplicateCell.
func TestNormalize_DuplicateCell(t *testing.T) {
	p := grid([3]int{1, 1, 1}, [3]int{1, 1, 2})
	if err := p.Normalize(4); !errors.Is(err, ErrDuplicateCell) {
		t.Errorf("expected ErrDuplicateCell, got %v", err)
	}
}

// 3. Tier bounds are checked against the table's max tier.
func TestNormalize_TierBounds(t *testing.T) {
	p := grid([3]int{0, 0, 5})
	if err := p.Normalize(4); !errors.Is(err, ErrTierOutOfRange) {
		t.Errorf("expected ErrTierOutOfRange for tier 5, got %v", err)
	}

	p = grid([3]int{0, 0, 0})
	if err := p.Normalize(4); !errors.Is(err, ErrTierOutOfRange) {
		t.Errorf("expected ErrTierOutOfRange for tier 0, got %v", err)
	}
}

// 4. Entries outside the 9×9 station grid fail with ErrOutOfGrid.
func TestNormalize_GridBounds(t *testing.T) {
	p := grid([3]int{9, 0, 1})
	if err := p.Normalize(4); !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("expected ErrOutOfGrid for row 9, got %v", err)
	}

	p = grid([3]int{0, -1, 1})
	if err := p.Normalize(4); !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("expected ErrOutOfGrid for col -1, got %v", err)
	}
}

// 5. Bounding box spans the occupied cells; empty placement has no box.
func TestBoundingBox(t *testing.T) {
	p := grid([3]int{1, 2, 1}, [3]int{4, 0, 1}, [3]int{2, 5, 1})
	b, ok := p.BoundingBox()
	if !ok {
		t.Fatal("expected bounding box for non-empty placement")
	}
	if b.MinRow != 1 || b.MaxRow != 4 || b.MinCol != 0 || b.MaxCol != 5 {
		t.Errorf("unexpected bounds: %+v", b)
	}
	if b.RowSpan() != 4 || b.ColSpan() != 6 {
		t.Errorf("expected spans 4x6, got %dx%d", b.RowSpan(), b.ColSpan())
	}

	empty := New(nil)
	if !empty.Empty() {
		t.Error("expected Empty()=true")
	}
	if _, ok := empty.BoundingBox(); ok {
		t.Error("expected no bounding box for empty placement")
	}
}

// 6. New copies the caller's slice; later caller mutation has no effect.
func TestNew_CopiesEntries(t *testing.T) {
	src := []Entry{{Row: 0, Col: 0, Material: "iron_ingot", Tier: 1}}
	p := New(src)
	src[0].Tier = 4
	if p.Entries[0].Tier != 1 {
		t.Error("New must copy entries, not alias the caller's slice")
	}
}

// 7. Material book resolves built-ins and rejects unknown materials.
func TestMaterialBook(t *testing.T) {
	book := DefaultMaterialBook()

	cat, err := book.CategoryOf("iron_ingot")
	if err != nil {
		t.Fatalf("CategoryOf(iron_ingot): %v", err)
	}
	if cat != "metal" {
		t.Errorf("expected metal, got %s", cat)
	}

	if _, err := book.CategoryOf("unobtainium"); !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

// 8. YAML material catalog parses and rejects duplicates.
func TestMaterialBook_Validation(t *testing.T) {
	if _, err := NewMaterialBook(map[string]string{}); err == nil {
		t.Error("expected error for empty book")
	}
	if _, err := NewMaterialBook(map[string]string{"": "metal"}); err == nil {
		t.Error("expected error for empty material name")
	}
}
