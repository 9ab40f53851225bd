package discipline

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/canvas"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/features"
)

// #region id

// ID identifies a crafting discipline. The set is closed: adding a
// discipline means adding a constant and its Spec below, nothing else.
type ID string

const (
	Smithing    ID = "smithing"
	Alchemy     ID = "alchemy"
	Woodworking ID = "woodworking"
	Cooking     ID = "cooking"
	Runecarving ID = "runecarving"
)

// ErrUnknown is returned for a discipline identifier outside the closed set.
var ErrUnknown = errors.New("unknown discipline")

// #endregion id

// #region spec

// Spec fixes a discipline's encoding contract: which encoder kind it uses
// and the exact output shape its classifier was trained against.
type Spec struct {
	ID        ID
	InputKind classifier.InputKind

	// TargetSize is the canvas resolution for tensor disciplines (0 otherwise).
	TargetSize int
	// Layout is the vector layout for vector disciplines (zero otherwise).
	Layout features.Layout

	// Station grid dimensions, informational for callers. Grid legality
	// beyond what encoding needs is the crafting subsystem's concern.
	GridRows, GridCols int
}

// Shape returns the encoder output shape the paired model must declare.
func (s Spec) Shape() []int {
	if s.InputKind == classifier.InputTensor {
		return []int{s.TargetSize, s.TargetSize, canvas.Channels}
	}
	return []int{s.Layout.Length()}
}

// #endregion spec

// #region registry

// specs is the fixed discipline registry, in canonical order.
var specs = []Spec{
	{ID: Smithing, InputKind: classifier.InputTensor, TargetSize: 36, GridRows: 5, GridCols: 5},
	{ID: Alchemy, InputKind: classifier.InputTensor, TargetSize: 56, GridRows: 9, GridCols: 9},
	{ID: Woodworking, InputKind: classifier.InputVector, Layout: features.WoodworkingLayout, GridRows: 6, GridCols: 6},
	{ID: Cooking, InputKind: classifier.InputVector, Layout: features.CookingLayout, GridRows: 4, GridCols: 4},
	{ID: Runecarving, InputKind: classifier.InputVector, Layout: features.RunecarvingLayout, GridRows: 7, GridCols: 7},
}

// Lookup returns the Spec for an identifier.
func Lookup(id ID) (Spec, error) {
	for _, s := range specs {
		if s.ID == id {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %s", ErrUnknown, id)
}

// All returns every discipline spec in canonical order. The slice is a copy.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// #endregion registry
