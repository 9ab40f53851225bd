package orchestrator

// #region imports
import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/canvas"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/features"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/memory"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #endregion

// #region constants

// InferenceBudgetMs is the documented per-call latency budget. Exceeding it
// logs a warning; enforcement (timeout, cancellation) is the caller's policy.
const InferenceBudgetMs = 100

// #endregion constants

// #region pipeline

// pipeline pairs one discipline's encoder with its classifier adapter.
type pipeline struct {
	spec      discipline.Spec
	imageEnc  *canvas.Encoder   // tensor disciplines
	vectorEnc *features.Encoder // vector disciplines
	adapter   *classifier.Adapter
}

// encode runs the discipline's encoder and returns the flat values.
func (p *pipeline) encode(pl placement.Placement) ([]float64, error) {
	if p.spec.InputKind == classifier.InputTensor {
		tensor, err := p.imageEnc.Encode(pl)
		if err != nil {
			return nil, err
		}
		return tensor.Flat(), nil
	}
	return p.vectorEnc.Encode(pl)
}

// #endregion pipeline

// #region orchestrator-struct

// Orchestrator dispatches placements to the correct encoder/adapter pair and
// runs the synchronous Dispatch → Encode → Infer pipeline. It holds no
// mutable state after construction; concurrent Validate calls are safe.
type Orchestrator struct {
	table     *category.Table
	pipelines map[discipline.ID]*pipeline
	outcomes  *memory.OutcomeMemory // optional telemetry sink
}

// #endregion orchestrator-struct

// #region constructor

// NewOrchestrator wires one pipeline per supplied adapter. Each adapter's
// declared model shape must match its discipline's fixed encoder shape;
// a conflict is a startup-time configuration error, not a per-call error.
func NewOrchestrator(
	table *category.Table,
	book *placement.MaterialBook,
	adapters map[discipline.ID]*classifier.Adapter,
) (*Orchestrator, error) {
	pipelines := make(map[discipline.ID]*pipeline, len(adapters))
	for id, adapter := range adapters {
		spec, err := discipline.Lookup(id)
		if err != nil {
			return nil, err
		}
		meta := adapter.Meta()
		if meta.InputKind != spec.InputKind {
			return nil, fmt.Errorf("discipline %s: model %s declares input kind %s, encoder produces %s",
				id, meta.Version, meta.InputKind, spec.InputKind)
		}
		if !shapeEqual(meta.Shape, spec.Shape()) {
			return nil, fmt.Errorf("discipline %s: model %s declares shape %v, encoder produces %v",
				id, meta.Version, meta.Shape, spec.Shape())
		}

		pl := &pipeline{spec: spec, adapter: adapter}
		if spec.InputKind == classifier.InputTensor {
			pl.imageEnc, err = canvas.NewEncoder(spec.TargetSize, table, book)
		} else {
			pl.vectorEnc, err = features.NewEncoder(spec.Layout, book)
		}
		if err != nil {
			return nil, fmt.Errorf("discipline %s: %w", id, err)
		}
		pipelines[id] = pl
	}

	return &Orchestrator{table: table, pipelines: pipelines}, nil
}

// SetOutcomeMemory attaches a telemetry sink. Recording is best-effort and
// never fails a validation call. Must be set before concurrent use begins.
func (o *Orchestrator) SetOutcomeMemory(m *memory.OutcomeMemory) {
	o.outcomes = m
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// #endregion constructor

// #region validate

// Validate runs the full pipeline for one placement. Unknown disciplines
// fail before any encoding work. Encode and Infer failures propagate the
// underlying error kind, annotated with the discipline and stage. No step
// retries; retry policy belongs to the caller.
func (o *Orchestrator) Validate(ctx context.Context, id discipline.ID, pl placement.Placement) (ValidationResult, error) {
	requestID := uuid.New().String()

	pipe, ok := o.pipelines[id]
	if !ok {
		// A known discipline with no wired adapter is a configuration gap,
		// not a bad request; callers must be able to tell the two apart.
		inner := fmt.Errorf("%w: %s", discipline.ErrUnknown, id)
		if _, lookupErr := discipline.Lookup(id); lookupErr == nil {
			inner = fmt.Errorf("%w: no model configured for %s", classifier.ErrModelUnavailable, id)
		}
		err := &StageError{Discipline: id, Stage: StageDispatch, Err: inner}
		o.record(requestID, id, ValidationResult{}, StageDispatch, err)
		return ValidationResult{}, err
	}

	// Work on a normalized copy; the caller's placement is never mutated.
	work := placement.New(pl.Entries)
	if err := work.Normalize(o.table.MaxTier()); err != nil {
		stageErr := &StageError{Discipline: id, Stage: StageEncode, Err: err}
		o.record(requestID, id, ValidationResult{}, StageEncode, stageErr)
		return ValidationResult{}, stageErr
	}

	encodeStart := time.Now()
	values, err := pipe.encode(work)
	encodingMs := float64(time.Since(encodeStart).Microseconds()) / 1000
	if err != nil {
		stageErr := &StageError{Discipline: id, Stage: StageEncode, Err: err}
		o.record(requestID, id, ValidationResult{EncodingLatencyMs: encodingMs}, StageEncode, stageErr)
		return ValidationResult{}, stageErr
	}

	inferStart := time.Now()
	verdict, err := pipe.adapter.Predict(ctx, values)
	inferenceMs := float64(time.Since(inferStart).Microseconds()) / 1000
	if err != nil {
		stageErr := &StageError{Discipline: id, Stage: StageInfer, Err: err}
		o.record(requestID, id, ValidationResult{EncodingLatencyMs: encodingMs, InferenceLatencyMs: inferenceMs}, StageInfer, stageErr)
		return ValidationResult{}, stageErr
	}

	if inferenceMs > InferenceBudgetMs {
		log.Printf("[VALID] %s inference %.1fms exceeds %dms budget", id, inferenceMs, InferenceBudgetMs)
	}
	log.Printf("[VALID] %s valid=%v confidence=%.3f encode=%.2fms infer=%.2fms",
		id, verdict.IsValid, verdict.Confidence, encodingMs, inferenceMs)

	result := ValidationResult{
		RequestID:          requestID,
		Discipline:         id,
		Verdict:            verdict,
		EncodingLatencyMs:  encodingMs,
		InferenceLatencyMs: inferenceMs,
	}
	o.record(requestID, id, result, "", nil)
	return result, nil
}

// #endregion validate

// #region record

// record writes telemetry when an outcome memory is attached. Failures are
// logged, never surfaced: telemetry must not corrupt the pipeline's result.
func (o *Orchestrator) record(requestID string, id discipline.ID, res ValidationResult, failedStage Stage, callErr error) {
	if o.outcomes == nil {
		return
	}
	rec := memory.OutcomeRecord{
		RequestID:   requestID,
		Discipline:  string(id),
		EncodingMs:  res.EncodingLatencyMs,
		InferenceMs: res.InferenceLatencyMs,
		Stage:       "done",
		CreatedAt:   time.Now().UTC(),
	}
	if callErr != nil {
		rec.Stage = string(failedStage)
		rec.ErrorKind = callErr.Error()
	} else {
		rec.IsValid = res.Verdict.IsValid
		rec.Confidence = res.Verdict.Confidence
	}
	if err := o.outcomes.Record(rec); err != nil {
		log.Printf("[VALID] failed to record outcome: %v", err)
	}
}

// #endregion record
