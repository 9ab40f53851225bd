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
	"github.com/danielpatrickdp/craftsense/go-validator/internal/parity"
	"github.com/danielpatrickdp/craftsense/go-validator/internal/placement"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to golden fixture JSON")
	natsURL := flag.String("nats", "", "inference service NATS URL (optional; enables verdict comparison)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: parity --fixture path/to/golden.json [--nats nats://localhost:4222] [--json]")
		os.Exit(2)
	}

	exitCode, err := run(*fixturePath, *natsURL, *jsonOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region run

func run(fixturePath, natsURL string, jsonOut bool) (int, error) {
	fixture, err := parity.LoadFixture(fixturePath)
	if err != nil {
		return 0, err
	}

	deps := parity.Deps{
		Table:    category.DefaultTable(),
		Book:     placement.DefaultMaterialBook(),
		Adapters: map[discipline.ID]*classifier.Adapter{},
	}

	if natsURL != "" {
		client, err := codec.NewInferenceClient(natsURL)
		if err != nil {
			return 0, err
		}
		defer client.Close()

		for _, spec := range discipline.All() {
			adapter, err := classifier.NewAdapter(classifier.ModelMeta{
				Discipline: string(spec.ID),
				InputKind:  spec.InputKind,
				Shape:      spec.Shape(),
				Version:    "serving",
			}, client.BackendFor(string(spec.ID), ""))
			if err != nil {
				return 0, err
			}
			deps.Adapters[spec.ID] = adapter
		}
	}

	results := parity.Run(context.Background(), fixture, deps)
	summary := parity.Summarize(results)

	if jsonOut {
		out := struct {
			Results []parity.CaseResult `json:"results"`
			Summary parity.Summary      `json:"summary"`
		}{results, summary}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return 0, err
		}
	} else {
		for _, r := range results {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			fmt.Printf("%-4s %-24s %-12s max_delta=%g\n", status, r.CaseID, r.Discipline, r.MaxDelta)
			for _, f := range r.Failures {
				fmt.Printf("       %s\n", f)
			}
		}
		fmt.Printf("\n%d cases: %d passed, %d failed, max delta %g\n",
			summary.TotalCases, summary.Passed, summary.Failed, summary.MaxDelta)
	}

	if summary.Failed > 0 {
		return 1, nil
	}
	return 0, nil
}

// #endregion run
