package canvas

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region constants

// BaseCells is the working canvas size in grid cells, independent of the
// placement's actual footprint. With a 4×4 stamp per cell the base pixel
// canvas is 36×36.
const BaseCells = 9

// BasePixels is the base canvas size in pixels before resizing.
const BasePixels = BaseCells * StampSize

// #endregion constants

// #region errors

var (
	// ErrPlacementTooLarge is returned when the placement's bounding box does
	// not fit the 9×9 working canvas.
	ErrPlacementTooLarge = errors.New("placement too large for canvas")
	// ErrBadTargetSize is returned at construction for an unsupported target
	// resolution. Only 36 and 56 have trained models.
	ErrBadTargetSize = errors.New("unsupported target size")
)

// #endregion errors

// #region encoder

// Encoder renders a placement into a 3-channel canvas tensor at a fixed
// target resolution. Every step of the pipeline (iteration order, additive
// accumulation, nearest-neighbor resize, final clamp) is part of the
// trained classifier's contract and must not change.
type Encoder struct {
	targetSize int
	table      *category.Table
	book       *placement.MaterialBook
}

// NewEncoder builds an image encoder for one of the supported resolutions.
func NewEncoder(targetSize int, table *category.Table, book *placement.MaterialBook) (*Encoder, error) {
	if targetSize != 36 && targetSize != 56 {
		return nil, fmt.Errorf("%w: %d (want 36 or 56)", ErrBadTargetSize, targetSize)
	}
	return &Encoder{targetSize: targetSize, table: table, book: book}, nil
}

// TargetSize returns the output resolution.
func (e *Encoder) TargetSize() int {
	return e.targetSize
}

// Shape returns the output tensor shape as (H, W, C).
func (e *Encoder) Shape() []int {
	return []int{e.targetSize, e.targetSize, Channels}
}

// #endregion encoder

// #region encode

// Encode renders the placement. The algorithm, in pinned order:
//  1. zero 9×9-cell (36×36-pixel) base canvas
//  2. centering offset so the bounding box is centered; bounding boxes larger
//     than 9 cells in either direction are rejected
//  3. per entry in row-major order: accumulate rgb(hue) * intensity(tier) *
//     shapeMask(category) * fillMask(tier) additively at the offset cell
//  4. nearest-neighbor resize to the target resolution
//  5. clamp every channel to [0,1]
//
// No partial tensor is returned on failure.
func (e *Encoder) Encode(p placement.Placement) (Tensor, error) {
	base := NewTensor(BasePixels, BasePixels)

	if p.Empty() {
		out := resizeNearest(base, e.targetSize)
		out.clamp()
		return out, nil
	}

	bounds, _ := p.BoundingBox()
	if bounds.RowSpan() > BaseCells || bounds.ColSpan() > BaseCells {
		return Tensor{}, fmt.Errorf("%w: %dx%d cells (max %dx%d)",
			ErrPlacementTooLarge, bounds.RowSpan(), bounds.ColSpan(), BaseCells, BaseCells)
	}
	offRow := (BaseCells - bounds.RowSpan()) / 2
	offCol := (BaseCells - bounds.ColSpan()) / 2

	// Row-major iteration order is load-bearing: later entries accumulate on
	// top of earlier ones, then everything clamps at the end. Sort a copy so
	// the guarantee holds regardless of caller ordering.
	entries := make([]placement.Entry, len(p.Entries))
	copy(entries, p.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Row != entries[j].Row {
			return entries[i].Row < entries[j].Row
		}
		return entries[i].Col < entries[j].Col
	})

	for _, entry := range entries {
		cat, err := e.book.CategoryOf(entry.Material)
		if err != nil {
			return Tensor{}, err
		}
		hue, err := e.table.HueOf(cat)
		if err != nil {
			return Tensor{}, err
		}
		intensity, err := e.table.IntensityOf(entry.Tier)
		if err != nil {
			return Tensor{}, err
		}
		shape, ok := shapeMasks[cat]
		if !ok {
			// Stamps are part of the category definition; a category without
			// one is outside the encoder's domain.
			return Tensor{}, fmt.Errorf("%w: no stamp for %s", category.ErrUnknownCategory, cat)
		}
		fill, ok := fillMasks[entry.Tier]
		if !ok {
			return Tensor{}, fmt.Errorf("%w: no fill mask for tier %d", category.ErrUnknownTier, entry.Tier)
		}

		r, g, b := hueToRGB(hue)
		cellRow := entry.Row - bounds.MinRow + offRow
		cellCol := entry.Col - bounds.MinCol + offCol
		py := cellRow * StampSize
		px := cellCol * StampSize

		for sy := 0; sy < StampSize; sy++ {
			for sx := 0; sx < StampSize; sx++ {
				m := shape[sy][sx] * fill[sy][sx] * intensity
				if m == 0 {
					continue
				}
				base.add(py+sy, px+sx, 0, r*m)
				base.add(py+sy, px+sx, 1, g*m)
				base.add(py+sy, px+sx, 2, b*m)
			}
		}
	}

	out := resizeNearest(base, e.targetSize)
	out.clamp()
	return out, nil
}

// #endregion encode

// #region hue-to-rgb

// hueToRGB converts a hue in degrees [0,360) at full saturation and value to
// an RGB triple in [0,1]. Standard HSV sector conversion; with S=V=1 the
// chroma is 1 and no offset term applies.
func hueToRGB(hue float64) (r, g, b float64) {
	h := math.Mod(hue, 360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	switch {
	case h < 1:
		return 1, x, 0
	case h < 2:
		return x, 1, 0
	case h < 3:
		return 0, 1, x
	case h < 4:
		return 0, x, 1
	case h < 5:
		return x, 0, 1
	default:
		return 1, 0, x
	}
}

// #endregion hue-to-rgb
