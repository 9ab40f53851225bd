package placement

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region errors

// ErrUnknownMaterial is returned when a material name has no category entry.
var ErrUnknownMaterial = errors.New("unknown material")

// #endregion errors

// #region book

// MaterialBook resolves material names to their category. Like the category
// table it is fixed at startup and read-only afterwards.
type MaterialBook struct {
	categories map[string]string
}

// CategoryOf returns the category a material belongs to.
func (b *MaterialBook) CategoryOf(material string) (string, error) {
	cat, ok := b.categories[material]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMaterial, material)
	}
	return cat, nil
}

// Len returns the number of known materials.
func (b *MaterialBook) Len() int {
	return len(b.categories)
}

// #endregion book

// #region constructor

// NewMaterialBook builds a book from a material→category map.
func NewMaterialBook(categories map[string]string) (*MaterialBook, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("material book: no materials")
	}
	b := &MaterialBook{categories: make(map[string]string, len(categories))}
	for m, c := range categories {
		if m == "" || c == "" {
			return nil, fmt.Errorf("material book: empty material or category name")
		}
		b.categories[m] = c
	}
	return b, nil
}

// DefaultMaterialBook returns the built-in material catalog.
func DefaultMaterialBook() *MaterialBook {
	b, err := NewMaterialBook(map[string]string{
		// metals
		"copper_ingot": "metal",
		"iron_ingot":   "metal",
		"silver_ingot": "metal",
		"gold_ingot":   "metal",
		// wood
		"oak_plank":   "wood",
		"birch_plank": "wood",
		"ash_plank":   "wood",
		// stone
		"granite_block": "stone",
		"marble_block":  "stone",
		"flint_shard":   "stone",
		// monster drops
		"slime_gel":    "monster_drop",
		"wolf_fang":    "monster_drop",
		"spider_silk":  "monster_drop",
		"drake_scale":  "monster_drop",
		// elemental
		"fire_mote":  "elemental",
		"frost_mote": "elemental",
		"storm_mote": "elemental",
		// herbs
		"sage_leaf":    "herb",
		"nightbloom":   "herb",
		"bitter_root":  "herb",
		// crystals
		"quartz_shard":    "crystal",
		"amethyst_cluster": "crystal",
		// bone
		"beast_bone":  "bone",
		"skull_chip":  "bone",
		// cloth
		"linen_bolt": "cloth",
		"wool_bolt":  "cloth",
		// essence
		"arcane_essence": "essence",
		"void_essence":   "essence",
	})
	if err != nil {
		panic(fmt.Sprintf("built-in material book invalid: %v", err))
	}
	return b
}

// #endregion constructor

// #region yaml-loader

// bookDoc mirrors the on-disk YAML material catalog.
type bookDoc struct {
	Materials []materialDoc `yaml:"materials"`
}

type materialDoc struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// LoadMaterialBook reads a YAML material catalog.
func LoadMaterialBook(path string) (*MaterialBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material book %s: %w", path, err)
	}
	var doc bookDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse material book %s: %w", path, err)
	}
	categories := make(map[string]string, len(doc.Materials))
	for _, m := range doc.Materials {
		if _, dup := categories[m.Name]; dup {
			return nil, fmt.Errorf("material book %s: duplicate material %s", path, m.Name)
		}
		categories[m.Name] = m.Category
	}
	return NewMaterialBook(categories)
}

// #endregion yaml-loader
