package classifier

import (
	"context"
	"fmt"
	"sync"
)

// #region backend

// confidenceEpsilon absorbs float noise from backends that compute
// probabilities in float32. Anything further outside [0,1] is an error, not
// a clamp.
const confidenceEpsilon = 1e-9

// Backend is the black-box inference boundary: a loaded model artifact plus
// whatever runtime executes it. Implementations must be safe for concurrent
// read-only use after load, or be wrapped with Serialize.
type Backend interface {
	Infer(ctx context.Context, values []float64) (label bool, confidence float64, err error)
}

// #endregion backend

// #region adapter

// Adapter is the uniform interface over one loaded model artifact. It
// validates input shape before inference and normalizes the backend's output
// into a Verdict.
type Adapter struct {
	meta    ModelMeta
	backend Backend
}

// NewAdapter pairs validated model metadata with a backend. backend may be
// nil; Predict then fails with ErrModelUnavailable until a loaded adapter
// replaces it.
func NewAdapter(meta ModelMeta, backend Backend) (*Adapter, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{meta: meta, backend: backend}, nil
}

// Meta returns the model metadata.
func (a *Adapter) Meta() ModelMeta {
	return a.meta
}

// #endregion adapter

// #region predict

// Predict runs inference on an encoded placement. Shape is validated first:
// invoking a backend with the wrong input length is undefined behavior on
// its side, so it never happens here.
func (a *Adapter) Predict(ctx context.Context, values []float64) (Verdict, error) {
	if want, got := a.meta.ExpectedLen(), len(values); got != want {
		return Verdict{}, fmt.Errorf("%w: model %s/%s expects %d values, got %d",
			ErrShapeMismatch, a.meta.Discipline, a.meta.Version, want, got)
	}
	if a.backend == nil {
		return Verdict{}, fmt.Errorf("%w: no backend loaded for %s", ErrModelUnavailable, a.meta.Discipline)
	}

	label, confidence, err := a.backend.Infer(ctx, values)
	if err != nil {
		return Verdict{}, err
	}

	switch {
	case confidence < -confidenceEpsilon || confidence > 1+confidenceEpsilon:
		return Verdict{}, fmt.Errorf("%w: %g from %s backend", ErrConfidenceRange, confidence, a.meta.Discipline)
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	return Verdict{IsValid: label, Confidence: confidence}, nil
}

// #endregion predict

// #region serialize

// serialBackend guards a non-reentrant backend with a mutex.
type serialBackend struct {
	mu    sync.Mutex
	inner Backend
}

// Serialize wraps a backend whose runtime is not safe for concurrent calls.
// One wrapper per model instance; there are no writers after load, so a
// plain mutex is enough.
func Serialize(b Backend) Backend {
	return &serialBackend{inner: b}
}

func (s *serialBackend) Infer(ctx context.Context, values []float64) (bool, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Infer(ctx, values)
}

// #endregion serialize
