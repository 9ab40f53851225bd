package features

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region errors

// ErrLengthMismatch indicates the encoder produced a vector whose length
// differs from the layout's declared length. This is a programming error in
// the layout or encoder, never a property of the input placement.
var ErrLengthMismatch = errors.New("feature vector length mismatch")

// #endregion errors

// #region encoder

// Encoder renders a placement into the fixed-length ordered vector a
// tree-based discipline's classifier expects.
type Encoder struct {
	layout Layout
	book   *placement.MaterialBook
}

// NewEncoder builds a vector encoder over a layout and material book.
func NewEncoder(layout Layout, book *placement.MaterialBook) (*Encoder, error) {
	if len(layout.Categories) == 0 || len(layout.Stats) == 0 {
		return nil, fmt.Errorf("layout %s: empty category or stat list", layout.Discipline)
	}
	return &Encoder{layout: layout, book: book}, nil
}

// Layout returns the encoder's fixed layout.
func (e *Encoder) Layout() Layout {
	return e.layout
}

// Length returns the fixed output length.
func (e *Encoder) Length() int {
	return e.layout.Length()
}

// #endregion encoder

// #region encode

// Encode computes the feature vector. Iteration follows the layout's fixed
// category enumeration, never the placement contents. Empty categories emit
// the 0.0 sentinel for every statistic; an empty mean must never be NaN or
// omitted.
func (e *Encoder) Encode(p placement.Placement) ([]float64, error) {
	tiersByCat := make(map[string][]int)
	totalCount := 0
	tierSumAll := 0
	for _, entry := range p.Entries {
		cat, err := e.book.CategoryOf(entry.Material)
		if err != nil {
			return nil, err
		}
		tiersByCat[cat] = append(tiersByCat[cat], entry.Tier)
		totalCount++
		tierSumAll += entry.Tier
	}

	vec := make([]float64, 0, e.layout.Length())
	for _, cat := range e.layout.Categories {
		tiers := tiersByCat[cat]
		for _, stat := range e.layout.Stats {
			vec = append(vec, statValue(stat, tiers))
		}
	}

	// Global block: total count, overall mean tier, bounding-box spans.
	vec = append(vec, float64(totalCount))
	if totalCount == 0 {
		vec = append(vec, 0)
	} else {
		vec = append(vec, float64(tierSumAll)/float64(totalCount))
	}
	if bounds, ok := p.BoundingBox(); ok {
		vec = append(vec, float64(bounds.RowSpan()), float64(bounds.ColSpan()))
	} else {
		vec = append(vec, 0, 0)
	}

	if len(vec) != e.layout.Length() {
		return nil, fmt.Errorf("%w: layout %s declares %d, produced %d",
			ErrLengthMismatch, e.layout.Discipline, e.layout.Length(), len(vec))
	}
	return vec, nil
}

// #endregion encode

// #region stat-value

// statValue computes one statistic over a category's tiers. Every statistic
// resolves to the 0.0 sentinel when the category is empty.
func statValue(stat Stat, tiers []int) float64 {
	n := len(tiers)
	switch stat {
	case StatCount:
		return float64(n)
	case StatMeanTier:
		if n == 0 {
			return 0
		}
		return tierMean(tiers)
	case StatTierVariance:
		if n == 0 {
			return 0
		}
		mean := tierMean(tiers)
		var sumSq float64
		for _, t := range tiers {
			d := float64(t) - mean
			sumSq += d * d
		}
		return sumSq / float64(n)
	case StatMaxTier:
		if n == 0 {
			return 0
		}
		max := tiers[0]
		for _, t := range tiers[1:] {
			if t > max {
				max = t
			}
		}
		return float64(max)
	case StatMinTier:
		if n == 0 {
			return 0
		}
		min := tiers[0]
		for _, t := range tiers[1:] {
			if t < min {
				min = t
			}
		}
		return float64(min)
	default:
		// Unknown stat kinds cannot appear in the fixed layouts; returning 0
		// would silently corrupt the contract, so treat it as impossible.
		panic(fmt.Sprintf("unknown stat kind %q", stat))
	}
}

func tierMean(tiers []int) float64 {
	sum := 0
	for _, t := range tiers {
		sum += t
	}
	return float64(sum) / float64(len(tiers))
}

// #endregion stat-value
