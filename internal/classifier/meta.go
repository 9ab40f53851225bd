package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region model-meta

// ModelMeta is the versioned, discipline-tagged description shipped alongside
// a model artifact. Its declared shape is checked against the paired
// encoder's fixed output shape at startup; a conflict there is a fatal
// configuration error, never a per-call error.
type ModelMeta struct {
	ModelID    string    `json:"model_id"`
	Discipline string    `json:"discipline"`
	InputKind  InputKind `json:"input_kind"`
	Shape      []int     `json:"shape"` // (H, W, C) for tensors, (L,) for vectors
	Version    string    `json:"version"`
}

// ExpectedLen returns the flat input length the model expects.
func (m ModelMeta) ExpectedLen() int {
	n := 1
	for _, d := range m.Shape {
		n *= d
	}
	return n
}

// Validate checks structural sanity of the metadata.
func (m ModelMeta) Validate() error {
	if m.Discipline == "" {
		return fmt.Errorf("model meta: empty discipline")
	}
	switch m.InputKind {
	case InputTensor:
		if len(m.Shape) != 3 {
			return fmt.Errorf("model meta %s: tensor shape must have 3 dims, got %d", m.Discipline, len(m.Shape))
		}
	case InputVector:
		if len(m.Shape) != 1 {
			return fmt.Errorf("model meta %s: vector shape must have 1 dim, got %d", m.Discipline, len(m.Shape))
		}
	default:
		return fmt.Errorf("model meta %s: unknown input kind %q", m.Discipline, m.InputKind)
	}
	for _, d := range m.Shape {
		if d <= 0 {
			return fmt.Errorf("model meta %s: non-positive shape dim %d", m.Discipline, d)
		}
	}
	return nil
}

// #endregion model-meta

// #region loader

// LoadMeta reads and validates a JSON model metadata sidecar.
func LoadMeta(path string) (ModelMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelMeta{}, fmt.Errorf("read model meta %s: %w", path, err)
	}
	var m ModelMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return ModelMeta{}, fmt.Errorf("parse model meta %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return ModelMeta{}, err
	}
	return m, nil
}

// #endregion loader
