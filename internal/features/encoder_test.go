package features

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// helper: encoder over the built-in material book.
func newTestEncoder(t *testing.T, layout Layout) *Encoder {
	t.Helper()
	enc, err := NewEncoder(layout, placement.DefaultMaterialBook())
	if err != nil {
		t.Fatalf("NewEncoder(%s): %v", layout.Discipline, err)
	}
	return enc
}

// 1. Declared layout lengths are the classifier contract: 19, 28, 34.
func TestLayout_Lengths(t *testing.T) {
	cases := []struct {
		layout Layout
		want   int
	}{
		{WoodworkingLayout, 19},
		{CookingLayout, 28},
		{RunecarvingLayout, 34},
	}
	for _, c := range cases {
		if got := c.layout.Length(); got != c.want {
			t.Errorf("%s: expected length %d, got %d", c.layout.Discipline, c.want, got)
		}
		if got := len(c.layout.Slots()); got != c.want {
			t.Errorf("%s: expected %d slot labels, got %d", c.layout.Discipline, c.want, got)
		}
	}
}

// 2. The woodworking scenario: two metal tier-3 entries and nothing else.
// metal count slot = 2, metal mean-tier slot = 3.0, every other category
// slot is the 0.0 sentinel. Catches any category reordering.
func TestEncode_TwoMetalTierThree(t *testing.T) {
	enc := newTestEncoder(t, WoodworkingLayout)
	p := placement.New([]placement.Entry{
		{Row: 0, Col: 0, Material: "iron_ingot", Tier: 3},
		{Row: 0, Col: 1, Material: "copper_ingot", Tier: 3},
	})

	vec, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vec) != 19 {
		t.Fatalf("expected length 19, got %d", len(vec))
	}

	// Layout order: elemental, metal, monster_drop, stone, wood, each with
	// (count, mean_tier, tier_variance), then the 4 global slots.
	want := []float64{
		0, 0, 0, // elemental
		2, 3, 0, // metal: count=2, mean=3.0, variance=0
		0, 0, 0, // monster_drop
		0, 0, 0, // stone
		0, 0, 0, // wood
		2, 3, 1, 2, // global: total=2, mean=3.0, row span=1, col span=2
	}
	if diff := cmp.Diff(want, vec); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

// 3. An empty placement encodes to all sentinels at full declared length.
func TestEncode_EmptyPlacement(t *testing.T) {
	for _, layout := range []Layout{WoodworkingLayout, CookingLayout, RunecarvingLayout} {
		enc := newTestEncoder(t, layout)
		vec, err := enc.Encode(placement.New(nil))
		if err != nil {
			t.Fatalf("%s: Encode empty: %v", layout.Discipline, err)
		}
		if len(vec) != layout.Length() {
			t.Fatalf("%s: expected length %d, got %d", layout.Discipline, layout.Length(), len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Errorf("%s: slot %d (%s) expected sentinel 0, got %v",
					layout.Discipline, i, layout.Slots()[i], v)
			}
		}
	}
}

// 4. Empty-category mean resolves to the sentinel, never NaN.
func TestEncode_NoNaN(t *testing.T) {
	enc := newTestEncoder(t, RunecarvingLayout)
	// One crystal entry: every other category stays empty.
	p := placement.New([]placement.Entry{{Row: 2, Col: 2, Material: "quartz_shard", Tier: 4}})

	vec, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i, v := range vec {
		if v != v { // NaN check
			t.Fatalf("slot %d (%s) is NaN", i, enc.Layout().Slots()[i])
		}
	}

	// crystal block leads the runecarving layout:
	// count=1, mean=4, variance=0, max=4, min=4
	want := []float64{1, 4, 0, 4, 4}
	if diff := cmp.Diff(want, vec[:5]); diff != "" {
		t.Errorf("crystal block mismatch (-want +got):\n%s", diff)
	}
}

// 5. Variance and max/min statistics over mixed tiers.
func TestEncode_Statistics(t *testing.T) {
	enc := newTestEncoder(t, CookingLayout)
	// Three herbs at tiers 1, 2, 3: mean=2, population variance=2/3, max=3.
	p := placement.New([]placement.Entry{
		{Row: 0, Col: 0, Material: "sage_leaf", Tier: 1},
		{Row: 0, Col: 1, Material: "nightbloom", Tier: 2},
		{Row: 1, Col: 0, Material: "bitter_root", Tier: 3},
	})

	vec, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// herb leads the cooking layout: (count, mean, variance, max)
	if vec[0] != 3 {
		t.Errorf("herb count: expected 3, got %v", vec[0])
	}
	if vec[1] != 2 {
		t.Errorf("herb mean: expected 2, got %v", vec[1])
	}
	if diff := vec[2] - 2.0/3.0; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("herb variance: expected 2/3, got %v", vec[2])
	}
	if vec[3] != 3 {
		t.Errorf("herb max: expected 3, got %v", vec[3])
	}
}

// 6. Determinism: double encode is bit-identical even with mixed categories.
func TestEncode_Deterministic(t *testing.T) {
	enc := newTestEncoder(t, CookingLayout)
	p := placement.New([]placement.Entry{
		{Row: 0, Col: 0, Material: "sage_leaf", Tier: 2},
		{Row: 1, Col: 1, Material: "wolf_fang", Tier: 3},
		{Row: 2, Col: 0, Material: "oak_plank", Tier: 1},
		{Row: 0, Col: 2, Material: "beast_bone", Tier: 4},
	})

	a, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode (second): %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("double encode differs:\n%s", diff)
	}
}

// 7. Unknown materials propagate; no partial vector.
func TestEncode_UnknownMaterial(t *testing.T) {
	enc := newTestEncoder(t, WoodworkingLayout)
	p := placement.New([]placement.Entry{{Row: 0, Col: 0, Material: "mystery_goo", Tier: 1}})
	if _, err := enc.Encode(p); !errors.Is(err, placement.ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

// 8. Materials from categories outside the layout contribute to the global
// block only.
func TestEncode_OffLayoutCategory(t *testing.T) {
	enc := newTestEncoder(t, WoodworkingLayout)
	// cloth is not in the woodworking enumeration.
	p := placement.New([]placement.Entry{{Row: 0, Col: 0, Material: "linen_bolt", Tier: 2}})

	vec, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 15; i++ {
		if vec[i] != 0 {
			t.Errorf("category slot %d expected 0, got %v", i, vec[i])
		}
	}
	if vec[15] != 1 || vec[16] != 2 {
		t.Errorf("global block expected total=1 mean=2, got %v %v", vec[15], vec[16])
	}
}
