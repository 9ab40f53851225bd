package parity

import (
	"context"
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/canvas"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/features"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region tolerances

// Documented comparison tolerances. Count and sentinel slots of feature
// vectors must match exactly; everything else gets a small numeric band.
const (
	TensorTolerance     = 0.001
	VectorTolerance     = 0.001
	ConfidenceTolerance = 0.01
)

// #endregion tolerances

// #region types

// Deps carries the real encoder inputs and optional adapters the harness
// replays against. When no adapter is registered for a case's discipline the
// verdict comparison is skipped and only the encoding is checked.
type Deps struct {
	Table    *category.Table
	Book     *placement.MaterialBook
	Adapters map[discipline.ID]*classifier.Adapter
}

// CaseResult captures one fixture case's recomputation outcome.
type CaseResult struct {
	CaseID         string
	Discipline     string
	Pass           bool
	MaxDelta       float64 // largest per-slot encoding delta observed
	VerdictChecked bool
	Failures       []string
}

// Summary aggregates a parity run.
type Summary struct {
	TotalCases int
	Passed     int
	Failed     int
	MaxDelta   float64
}

// #endregion types

// #region run

// Run replays every fixture case through the real encoders (and adapters,
// when available) and compares against the stored golden outputs. Golden
// files are never written or mutated here.
func Run(ctx context.Context, f *Fixture, deps Deps) []CaseResult {
	results := make([]CaseResult, 0, len(f.Cases))
	for i := range f.Cases {
		results = append(results, runCase(ctx, &f.Cases[i], deps))
	}
	return results
}

func runCase(ctx context.Context, c *FixtureCase, deps Deps) CaseResult {
	res := CaseResult{CaseID: c.CaseID, Discipline: c.Discipline, Pass: true}
	fail := func(format string, args ...any) {
		res.Pass = false
		res.Failures = append(res.Failures, fmt.Sprintf(format, args...))
	}

	spec, err := discipline.Lookup(discipline.ID(c.Discipline))
	if err != nil {
		fail("%v", err)
		return res
	}

	pl := c.ToPlacement()
	if err := pl.Normalize(deps.Table.MaxTier()); err != nil {
		fail("normalize: %v", err)
		return res
	}

	values, err := encodeFor(spec, pl, deps)
	if err != nil {
		fail("encode: %v", err)
		return res
	}

	if diff := cmp.Diff(c.Expected.Shape, spec.Shape()); diff != "" {
		fail("shape mismatch (-golden +recomputed):\n%s", diff)
		return res
	}
	if len(values) != len(c.Expected.Values) {
		fail("length mismatch: golden %d, recomputed %d", len(c.Expected.Values), len(values))
		return res
	}

	exact := exactSlots(spec, c.Expected.Values)
	for i, want := range c.Expected.Values {
		got := values[i]
		delta := math.Abs(got - want)
		if delta > res.MaxDelta {
			res.MaxDelta = delta
		}
		if exact != nil && exact[i] {
			if got != want {
				fail("slot %d (%s): golden %v, recomputed %v (exact slot)", i, slotLabel(spec, i), want, got)
			}
			continue
		}
		tol := TensorTolerance
		if spec.InputKind == classifier.InputVector {
			tol = VectorTolerance
		}
		if delta > tol {
			fail("slot %d (%s): golden %v, recomputed %v, delta %g > %g", i, slotLabel(spec, i), want, got, delta, tol)
		}
	}

	if c.Verdict != nil {
		adapter := deps.Adapters[discipline.ID(c.Discipline)]
		if adapter != nil {
			res.VerdictChecked = true
			verdict, err := adapter.Predict(ctx, values)
			if err != nil {
				fail("predict: %v", err)
				return res
			}
			if verdict.IsValid != c.Verdict.IsValid {
				fail("verdict: golden is_valid=%v, recomputed %v", c.Verdict.IsValid, verdict.IsValid)
			}
			if d := math.Abs(verdict.Confidence - c.Verdict.Confidence); d > ConfidenceTolerance {
				fail("confidence: golden %.4f, recomputed %.4f, delta %g > %g",
					c.Verdict.Confidence, verdict.Confidence, d, ConfidenceTolerance)
			}
		}
	}

	return res
}

// encodeFor runs the discipline's real encoder.
func encodeFor(spec discipline.Spec, pl placement.Placement, deps Deps) ([]float64, error) {
	if spec.InputKind == classifier.InputTensor {
		enc, err := canvas.NewEncoder(spec.TargetSize, deps.Table, deps.Book)
		if err != nil {
			return nil, err
		}
		tensor, err := enc.Encode(pl)
		if err != nil {
			return nil, err
		}
		return tensor.Flat(), nil
	}
	enc, err := features.NewEncoder(spec.Layout, deps.Book)
	if err != nil {
		return nil, err
	}
	return enc.Encode(pl)
}

// exactSlots marks the vector positions that must match bit-for-bit: count
// slots, the integer-valued global slots, and every statistic slot of a
// category whose golden count is 0. An empty category emits the 0.0 sentinel
// in all its slots, and a sentinel can only be reproduced by an exact 0; a
// tolerance band there would wave through exactly the drift the harness
// exists to catch. Returns nil for tensor disciplines.
func exactSlots(spec discipline.Spec, golden []float64) []bool {
	if spec.InputKind != classifier.InputVector {
		return nil
	}
	layout := spec.Layout
	out := make([]bool, layout.Length())

	countPos := -1
	for i, s := range layout.Stats {
		if s == features.StatCount {
			countPos = i
		}
	}
	if countPos >= 0 {
		for ci := range layout.Categories {
			base := ci * len(layout.Stats)
			out[base+countPos] = true
			if base+countPos < len(golden) && golden[base+countPos] == 0 {
				for si := range layout.Stats {
					out[base+si] = true
				}
			}
		}
	}

	labels := layout.Slots()
	for i, label := range labels {
		switch label {
		case "global.total_count", "global.row_span", "global.col_span":
			out[i] = true
		}
	}
	return out
}

func slotLabel(spec discipline.Spec, i int) string {
	if spec.InputKind != classifier.InputVector {
		return "channel"
	}
	labels := spec.Layout.Slots()
	if i < len(labels) {
		return labels[i]
	}
	return "?"
}

// #endregion run

// #region summarize

// Summarize computes aggregate stats from a parity run.
func Summarize(results []CaseResult) Summary {
	s := Summary{TotalCases: len(results)}
	for _, r := range results {
		if r.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
		if r.MaxDelta > s.MaxDelta {
			s.MaxDelta = r.MaxDelta
		}
	}
	return s
}

// #endregion summarize
