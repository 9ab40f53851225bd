package canvas

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// helper: encoder over the built-in table and material book.
func newTestEncoder(t *testing.T, targetSize int) *Encoder {
	t.Helper()
	enc, err := NewEncoder(targetSize, category.DefaultTable(), placement.DefaultMaterialBook())
	if err != nil {
		t.Fatalf("NewEncoder(%d): %v", targetSize, err)
	}
	return enc
}

// helper: single-cell placement.
func singleCell(row, col int, material string, tier int) placement.Placement {
	return placement.New([]placement.Entry{{Row: row, Col: col, Material: material, Tier: tier}})
}

// helper: total channel mass of a tensor.
func totalMass(tensor Tensor) float64 {
	var sum float64
	for _, v := range tensor.Data {
		sum += v
	}
	return sum
}

// 1. Determinism: encoding the same placement twice is bit-identical.
func TestEncode_Deterministic(t *testing.T) {
	enc := newTestEncoder(t, 36)
	p := placement.New([]placement.Entry{
		{Row: 0, Col: 0, Material: "iron_ingot", Tier: 2},
		{Row: 1, Col: 2, Material: "oak_plank", Tier: 4},
		{Row: 3, Col: 1, Material: "fire_mote", Tier: 1},
	})

	a, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := enc.Encode(p)
	if err != nil {
		t.Fatalf("Encode (second): %v", err)
	}
	if diff := cmp.Diff(a.Data, b.Data); diff != "" {
		t.Errorf("double encode differs (-first +second):\n%s", diff)
	}
}

// 2. Centering invariant: a single occupied cell produces the same tensor
// no matter which grid cell held it.
func TestEncode_CenteringInvariant(t *testing.T) {
	enc := newTestEncoder(t, 36)

	base, err := enc.Encode(singleCell(0, 0, "iron_ingot", 2))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if totalMass(base) == 0 {
		t.Fatal("expected non-zero mass for occupied cell")
	}

	for _, cell := range [][2]int{{8, 8}, {4, 4}, {0, 8}, {7, 2}} {
		other, err := enc.Encode(singleCell(cell[0], cell[1], "iron_ingot", 2))
		if err != nil {
			t.Fatalf("Encode at (%d,%d): %v", cell[0], cell[1], err)
		}
		if diff := cmp.Diff(base.Data, other.Data); diff != "" {
			t.Errorf("cell (%d,%d) not centered identically:\n%s", cell[0], cell[1], diff)
		}
	}

	// The stamp lands in the middle cell of the 9×9 canvas: cell (4,4),
	// pixels [16,20). Everything outside that block is zero.
	for y := 0; y < base.H; y++ {
		for x := 0; x < base.W; x++ {
			inStamp := y >= 16 && y < 20 && x >= 16 && x < 20
			for c := 0; c < Channels; c++ {
				if !inStamp && base.At(y, x, c) != 0 {
					t.Fatalf("unexpected mass outside centered stamp at (%d,%d,%d)", y, x, c)
				}
			}
		}
	}
}

// 3. Channel magnitudes scale monotonically with tier.
func TestEncode_TierMonotonicity(t *testing.T) {
	enc := newTestEncoder(t, 36)

	var prev float64
	for tier := 1; tier <= 4; tier++ {
		tensor, err := enc.Encode(singleCell(2, 2, "iron_ingot", tier))
		if err != nil {
			t.Fatalf("Encode tier %d: %v", tier, err)
		}
		mass := totalMass(tensor)
		if mass <= prev {
			t.Errorf("tier %d mass %.4f not greater than tier %d mass %.4f", tier, mass, tier-1, prev)
		}
		prev = mass
	}
}

// 4. Metal (hue 210°) stamps a blue-dominant color: blue channel mass must
// exceed red channel mass.
func TestEncode_HueConsistency(t *testing.T) {
	enc := newTestEncoder(t, 36)
	tensor, err := enc.Encode(singleCell(0, 0, "iron_ingot", 4))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var red, blue float64
	for y := 0; y < tensor.H; y++ {
		for x := 0; x < tensor.W; x++ {
			red += tensor.At(y, x, 0)
			blue += tensor.At(y, x, 2)
		}
	}
	if blue == 0 {
		t.Fatal("expected non-zero blue mass for hue 210")
	}
	if red >= blue {
		t.Errorf("expected blue-dominant stamp for hue 210, red=%.4f blue=%.4f", red, blue)
	}
}

// 5. Empty placement encodes to an all-zero tensor, not an error.
func TestEncode_EmptyPlacement(t *testing.T) {
	for _, size := range []int{36, 56} {
		enc := newTestEncoder(t, size)
		tensor, err := enc.Encode(placement.New(nil))
		if err != nil {
			t.Fatalf("Encode empty at %d: %v", size, err)
		}
		if tensor.H != size || tensor.W != size {
			t.Errorf("expected %dx%d tensor, got %dx%d", size, size, tensor.H, tensor.W)
		}
		if totalMass(tensor) != 0 {
			t.Errorf("expected all-zero tensor at %d", size)
		}
	}
}

// 6. A bounding box wider than the 9-cell canvas fails with
// ErrPlacementTooLarge and returns no partial tensor.
func TestEncode_PlacementTooLarge(t *testing.T) {
	enc := newTestEncoder(t, 36)
	p := placement.New([]placement.Entry{
		{Row: 0, Col: 0, Material: "iron_ingot", Tier: 1},
		{Row: 10, Col: 0, Material: "iron_ingot", Tier: 1},
	})
	if _, err := enc.Encode(p); !errors.Is(err, ErrPlacementTooLarge) {
		t.Errorf("expected ErrPlacementTooLarge, got %v", err)
	}
}

// 7. Unknown materials propagate from the material book.
func TestEncode_UnknownMaterial(t *testing.T) {
	enc := newTestEncoder(t, 36)
	if _, err := enc.Encode(singleCell(0, 0, "unobtainium", 1)); !errors.Is(err, placement.ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

// 8. The 56×56 variant upsamples the same base canvas: same total stamp
// presence, larger resolution, values still clamped to [0,1].
func TestEncode_TargetSize56(t *testing.T) {
	enc := newTestEncoder(t, 56)
	tensor, err := enc.Encode(singleCell(3, 3, "granite_block", 3))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if tensor.H != 56 || tensor.W != 56 {
		t.Fatalf("expected 56x56, got %dx%d", tensor.H, tensor.W)
	}
	if totalMass(tensor) == 0 {
		t.Error("expected non-zero mass after upsampling")
	}
	for i, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("value %g at index %d outside [0,1]", v, i)
		}
	}
}

// 9. Unsupported target resolutions are construction-time errors.
func TestNewEncoder_BadTargetSize(t *testing.T) {
	_, err := NewEncoder(48, category.DefaultTable(), placement.DefaultMaterialBook())
	if !errors.Is(err, ErrBadTargetSize) {
		t.Errorf("expected ErrBadTargetSize, got %v", err)
	}
}

// 10. Flat layout matches At addressing: row-major, channel-minor.
func TestTensor_FlatLayout(t *testing.T) {
	tensor := NewTensor(2, 2)
	tensor.add(1, 0, 2, 0.5)
	flat := tensor.Flat()
	idx := (1*2+0)*Channels + 2
	if flat[idx] != 0.5 {
		t.Errorf("expected flat[%d]=0.5, got %v", idx, flat[idx])
	}
}
