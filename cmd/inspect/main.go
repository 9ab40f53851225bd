package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/canvas"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/features"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/memory"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/registry"
)

// #region main

func main() {
	placementPath := flag.String("placement", "", "path to placement JSON (encode mode)")
	disciplineID := flag.String("discipline", "", "discipline identifier")
	dbPath := flag.String("db", "", "model registry database (registry modes)")
	models := flag.Bool("models", false, "list registered model artifacts")
	stats := flag.Bool("stats", false, "show validation outcome stats for --discipline")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	var err error
	switch {
	case *dbPath != "" && *models:
		err = runModels(*dbPath, *jsonOut)
	case *dbPath != "" && *stats && *disciplineID != "":
		err = runStats(*dbPath, *disciplineID, *jsonOut)
	case *placementPath != "" && *disciplineID != "":
		err = runEncode(*placementPath, *disciplineID, *jsonOut)
	default:
		fmt.Fprintln(os.Stderr, "usage: inspect --placement p.json --discipline smithing [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --db models.db --models [--json]")
		fmt.Fprintln(os.Stderr, "       inspect --db models.db --stats --discipline smithing [--json]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region encode-mode

// channelSummary aggregates one tensor channel for display.
type channelSummary struct {
	Channel string  `json:"channel"`
	Mass    float64 `json:"mass"`
	NonZero int     `json:"non_zero"`
	Max     float64 `json:"max"`
}

func runEncode(placementPath, disciplineID string, jsonOut bool) error {
	spec, err := discipline.Lookup(discipline.ID(disciplineID))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(placementPath)
	if err != nil {
		return fmt.Errorf("read placement %s: %w", placementPath, err)
	}
	var entries []placement.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse placement %s: %w", placementPath, err)
	}

	table := category.DefaultTable()
	book := placement.DefaultMaterialBook()
	pl := placement.New(entries)
	if err := pl.Normalize(table.MaxTier()); err != nil {
		return err
	}

	if spec.InputKind == classifier.InputTensor {
		enc, err := canvas.NewEncoder(spec.TargetSize, table, book)
		if err != nil {
			return err
		}
		tensor, err := enc.Encode(pl)
		if err != nil {
			return err
		}
		return printTensor(tensor, jsonOut)
	}

	enc, err := features.NewEncoder(spec.Layout, book)
	if err != nil {
		return err
	}
	vec, err := enc.Encode(pl)
	if err != nil {
		return err
	}
	return printVector(spec.Layout, vec, jsonOut)
}

func printTensor(tensor canvas.Tensor, jsonOut bool) error {
	summaries := make([]channelSummary, canvas.Channels)
	names := []string{"red", "green", "blue"}
	for c := 0; c < canvas.Channels; c++ {
		s := channelSummary{Channel: names[c]}
		for y := 0; y < tensor.H; y++ {
			for x := 0; x < tensor.W; x++ {
				v := tensor.At(y, x, c)
				s.Mass += v
				if v > 0 {
					s.NonZero++
				}
				if v > s.Max {
					s.Max = v
				}
			}
		}
		summaries[c] = s
	}

	if jsonOut {
		out := map[string]any{
			"shape":    []int{tensor.H, tensor.W, canvas.Channels},
			"channels": summaries,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("tensor %dx%dx%d\n", tensor.H, tensor.W, canvas.Channels)
	for _, s := range summaries {
		fmt.Printf("  %-6s mass=%.3f non_zero=%d max=%.3f\n", s.Channel, s.Mass, s.NonZero, s.Max)
	}
	return nil
}

func printVector(layout features.Layout, vec []float64, jsonOut bool) error {
	labels := layout.Slots()
	if jsonOut {
		out := make(map[string]float64, len(vec))
		for i, v := range vec {
			out[labels[i]] = v
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("vector %s (length %d)\n", layout.Discipline, len(vec))
	for i, v := range vec {
		fmt.Printf("  %-28s %g\n", labels[i], v)
	}
	return nil
}

// #endregion encode-mode

// #region registry-modes

func runModels(dbPath string, jsonOut bool) error {
	store, err := registry.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	artifacts, err := store.List(50)
	if err != nil {
		return err
	}

	if jsonOut {
		type row struct {
			ModelID    string `json:"model_id"`
			Discipline string `json:"discipline"`
			InputKind  string `json:"input_kind"`
			Shape      []int  `json:"shape"`
			Version    string `json:"version"`
			Weights    int    `json:"weight_count"`
		}
		rows := make([]row, len(artifacts))
		for i, a := range artifacts {
			rows[i] = row{
				ModelID: a.Meta.ModelID, Discipline: a.Meta.Discipline,
				InputKind: string(a.Meta.InputKind), Shape: a.Meta.Shape,
				Version: a.Meta.Version, Weights: len(a.Weights),
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, a := range artifacts {
		fmt.Printf("%-36s %-12s %-7s %-12v %s (%d weights)\n",
			a.Meta.ModelID, a.Meta.Discipline, a.Meta.InputKind, a.Meta.Shape,
			a.Meta.Version, len(a.Weights))
	}
	return nil
}

func runStats(dbPath, disciplineID string, jsonOut bool) error {
	store, err := registry.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	outcomes, err := memory.NewOutcomeMemory(store.DB())
	if err != nil {
		return err
	}
	s, err := outcomes.StatsFor(disciplineID)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Printf("discipline:       %s\n", s.Discipline)
	fmt.Printf("total calls:      %d\n", s.Total)
	fmt.Printf("completed:        %d\n", s.Completed)
	fmt.Printf("accept rate:      %.3f\n", s.AcceptRate)
	fmt.Printf("mean confidence:  %.3f\n", s.MeanConfidence)
	fmt.Printf("mean encode ms:   %.3f\n", s.MeanEncodingMs)
	fmt.Printf("mean infer ms:    %.3f\n", s.MeanInferMs)
	fmt.Printf("max infer ms:     %.3f\n", s.MaxInferMs)
	return nil
}

// #endregion registry-modes
