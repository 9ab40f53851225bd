package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/codec"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/memory"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/orchestrator"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/registry"
)

// #region main

func main() {
	placementPath := flag.String("placement", "", "path to placement JSON (array of entries)")
	disciplineID := flag.String("discipline", "", "discipline identifier")
	natsURL := flag.String("nats", "", "inference service NATS URL")
	fake := flag.Bool("fake", false, "use a fixed offline backend instead of --nats")
	dbPath := flag.String("db", "", "model registry database (optional; resolves the active model and records outcomes)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	haveBackend := (*natsURL != "") != *fake // exactly one of --nats, --fake
	if *placementPath == "" || *disciplineID == "" || !haveBackend {
		fmt.Fprintln(os.Stderr, "usage: validate --placement path/to/placement.json --discipline smithing (--nats nats://localhost:4222 | --fake) [--db models.db] [--json]")
		os.Exit(2)
	}

	if err := run(*placementPath, *disciplineID, *natsURL, *dbPath, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(placementPath, disciplineID, natsURL, dbPath string, jsonOut bool) error {
	id := discipline.ID(disciplineID)
	spec, err := discipline.Lookup(id)
	if err != nil {
		return err
	}

	pl, err := loadPlacement(placementPath)
	if err != nil {
		return err
	}

	meta := classifier.ModelMeta{
		Discipline: disciplineID,
		InputKind:  spec.InputKind,
		Shape:      spec.Shape(),
		Version:    "unversioned",
	}

	var outcomes *memory.OutcomeMemory
	if dbPath != "" {
		store, err := registry.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if artifact, err := store.Active(disciplineID); err == nil {
			meta = artifact.Meta
		}
		outcomes, err = memory.NewOutcomeMemory(store.DB())
		if err != nil {
			return err
		}
	}

	var backend classifier.Backend
	if natsURL != "" {
		client, err := codec.NewInferenceClient(natsURL)
		if err != nil {
			return err
		}
		defer client.Close()
		backend = client.BackendFor(disciplineID, meta.ModelID)
	} else {
		backend = fakeBackend{}
		meta.Version = "fake"
	}

	adapter, err := classifier.NewAdapter(meta, backend)
	if err != nil {
		return err
	}

	orch, err := orchestrator.NewOrchestrator(
		category.DefaultTable(),
		placement.DefaultMaterialBook(),
		map[discipline.ID]*classifier.Adapter{id: adapter},
	)
	if err != nil {
		return err
	}
	if outcomes != nil {
		orch.SetOutcomeMemory(outcomes)
	}

	result, err := orch.Validate(context.Background(), id, pl)
	if err != nil {
		return err
	}

	if jsonOut {
		out := map[string]any{
			"request_id":           result.RequestID,
			"discipline":           result.Discipline,
			"is_valid":             result.Verdict.IsValid,
			"confidence":           result.Verdict.Confidence,
			"encoding_latency_ms":  result.EncodingLatencyMs,
			"inference_latency_ms": result.InferenceLatencyMs,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("discipline:  %s\n", result.Discipline)
	fmt.Printf("valid:       %v\n", result.Verdict.IsValid)
	fmt.Printf("confidence:  %.3f\n", result.Verdict.Confidence)
	fmt.Printf("encode:      %.2fms\n", result.EncodingLatencyMs)
	fmt.Printf("infer:       %.2fms\n", result.InferenceLatencyMs)
	return nil
}

// #endregion run

// #region fake-backend

// fakeBackend accepts everything with full confidence. It exercises the full
// dispatch/encode/infer pipeline without a model-serving process; the verdict
// carries no signal.
type fakeBackend struct{}

func (fakeBackend) Infer(ctx context.Context, values []float64) (bool, float64, error) {
	return true, 1, nil
}

// #endregion fake-backend

// #region load-placement

// loadPlacement reads a JSON array of placement entries.
func loadPlacement(path string) (placement.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return placement.Placement{}, fmt.Errorf("read placement %s: %w", path, err)
	}
	var entries []placement.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return placement.Placement{}, fmt.Errorf("parse placement %s: %w", path, err)
	}
	return placement.New(entries), nil
}

// #endregion load-placement
