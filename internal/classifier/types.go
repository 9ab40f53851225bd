package classifier

import "errors"

// #region input-kind

// InputKind declares which encoding a model consumes.
type InputKind string

const (
	InputTensor InputKind = "tensor"
	InputVector InputKind = "vector"
)

// #endregion input-kind

// #region verdict

// Verdict is the classifier's decision for one placement.
type Verdict struct {
	IsValid    bool    `json:"is_valid"`
	Confidence float64 `json:"confidence"` // always in [0,1]
}

// #endregion verdict

// #region errors

var (
	// ErrShapeMismatch is returned when the encoded input's length does not
	// match the loaded model's declared shape. Bad input, not backend down.
	ErrShapeMismatch = errors.New("input shape mismatch")
	// ErrModelUnavailable is returned when no backend is loaded or the
	// backend cannot be reached. Distinct from malformed input; the caller
	// may retry.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrConfidenceRange is returned when the backend reports a confidence
	// outside [0,1] beyond rounding noise.
	ErrConfidenceRange = errors.New("backend confidence out of range")
)

// #endregion errors
