package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region yaml-types

// tableDoc mirrors the on-disk YAML table document.
type tableDoc struct {
	Version    string        `yaml:"version"`
	Categories []categoryDoc `yaml:"categories"`
	Tiers      []tierDoc     `yaml:"tiers"`
}

type categoryDoc struct {
	Name string  `yaml:"name"`
	Hue  float64 `yaml:"hue"`
}

type tierDoc struct {
	Tier      int     `yaml:"tier"`
	Intensity float64 `yaml:"intensity"`
}

// #endregion yaml-types

// #region loader

// LoadTable reads a YAML table document and builds a validated Table.
// Category order in the document is the canonical order.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category table %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses a YAML table document from memory.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse category table: %w", err)
	}

	hues := make(map[string]float64, len(doc.Categories))
	order := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		if _, dup := hues[c.Name]; dup {
			return nil, fmt.Errorf("category table %s: duplicate category %s", doc.Version, c.Name)
		}
		hues[c.Name] = c.Hue
		order = append(order, c.Name)
	}

	intensities := make(map[int]float64, len(doc.Tiers))
	for _, td := range doc.Tiers {
		if _, dup := intensities[td.Tier]; dup {
			return nil, fmt.Errorf("category table %s: duplicate tier %d", doc.Version, td.Tier)
		}
		intensities[td.Tier] = td.Intensity
	}

	return NewTable(doc.Version, hues, intensities, order)
}

// #endregion loader
