package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/canvas"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/category"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/codec"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/discipline"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/features"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/parity"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region main

func main() {
	placementPath := flag.String("placement", "", "path to placement JSON (array of entries)")
	disciplineID := flag.String("discipline", "", "discipline identifier")
	caseID := flag.String("case-id", "", "stable test-case identifier")
	outPath := flag.String("out", "", "output fixture JSON path")
	natsURL := flag.String("nats", "", "inference service NATS URL (optional; records the expected verdict)")
	description := flag.String("description", "", "fixture description")
	flag.Parse()

	if *placementPath == "" || *disciplineID == "" || *caseID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --placement p.json --discipline smithing --case-id smith-001 --out golden.json [--nats url] [--description text]")
		os.Exit(2)
	}

	if err := run(*placementPath, *disciplineID, *caseID, *outPath, *natsURL, *description); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(placementPath, disciplineID, caseID, outPath, natsURL, description string) error {
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

	values, err := encodeFor(spec, pl, table, book)
	if err != nil {
		return err
	}

	fixtureEntries := make([]parity.FixtureEntry, len(entries))
	for i, e := range entries {
		fixtureEntries[i] = parity.FixtureEntry{Row: e.Row, Col: e.Col, Material: e.Material, Tier: e.Tier}
	}

	c := parity.FixtureCase{
		CaseID:     caseID,
		Discipline: disciplineID,
		Placement:  fixtureEntries,
		Expected:   parity.FixtureEncoded{Shape: spec.Shape(), Values: values},
	}

	if natsURL != "" {
		verdict, err := predictVerdict(spec, values, natsURL)
		if err != nil {
			return err
		}
		c.Verdict = &parity.FixtureVerdict{IsValid: verdict.IsValid, Confidence: verdict.Confidence}
	}

	fixture := parity.Fixture{Description: description, Cases: []parity.FixtureCase{c}}
	out, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s: case %s (%s), %d values\n", outPath, caseID, disciplineID, len(values))
	return nil
}

func encodeFor(spec discipline.Spec, pl placement.Placement, table *category.Table, book *placement.MaterialBook) ([]float64, error) {
	if spec.InputKind == classifier.InputTensor {
		enc, err := canvas.NewEncoder(spec.TargetSize, table, book)
		if err != nil {
			return nil, err
		}
		tensor, err := enc.Encode(pl)
		if err != nil {
			return nil, err
		}
		return tensor.Flat(), nil
	}
	enc, err := features.NewEncoder(spec.Layout, book)
	if err != nil {
		return nil, err
	}
	return enc.Encode(pl)
}

func predictVerdict(spec discipline.Spec, values []float64, natsURL string) (classifier.Verdict, error) {
	client, err := codec.NewInferenceClient(natsURL)
	if err != nil {
		return classifier.Verdict{}, err
	}
	defer client.Close()

	adapter, err := classifier.NewAdapter(classifier.ModelMeta{
		Discipline: string(spec.ID),
		InputKind:  spec.InputKind,
		Shape:      spec.Shape(),
		Version:    "serving",
	}, client.BackendFor(string(spec.ID), ""))
	if err != nil {
		return classifier.Verdict{}, err
	}
	return adapter.Predict(context.Background(), values)
}

// #endregion run
