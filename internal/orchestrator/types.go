package orchestrator

import (
	"fmt"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
)

// #region stage

// Stage names a step of the validation pipeline for failure annotation.
type Stage string

const (
	StageDispatch Stage = "dispatch"
	StageEncode   Stage = "encode"
	StageInfer    Stage = "infer"
)

// #endregion stage

// #region stage-error

// StageError annotates a pipeline failure with the discipline and stage it
// occurred in. The underlying error kind passes through Unwrap unchanged so
// errors.Is still distinguishes bad input from backend-down.
type StageError struct {
	Discipline discipline.ID
	Stage      Stage
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Discipline, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// #endregion stage-error

// #region validation-result

// ValidationResult is returned in-process to the caller and then discarded;
// the core does not persist or transmit it further.
type ValidationResult struct {
	RequestID          string
	Discipline         discipline.ID
	Verdict            classifier.Verdict
	EncodingLatencyMs  float64
	InferenceLatencyMs float64
}

// #endregion validation-result
