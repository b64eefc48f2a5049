package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		orgs          = flag.Int("organizations", cfg.NumOrganizations, "number of organizations to generate")
		people        = flag.Int("people", cfg.NumPeople, "number of people to generate")
		opportunities = flag.Int("opportunities", cfg.NumOpportunities, "number of opportunities to generate")
		events        = flag.Int("events", cfg.NumEvents, "number of events to generate")
		connections   = flag.Int("avg-connections", cfg.AvgConnections, "average relationships per person")
		colleague     = flag.Float64("colleague-chance", cfg.ColleagueChance, "probability a relationship stays inside the organization")
		inactive      = flag.Float64("inactive-chance", cfg.InactiveChance, "probability a relationship is inactive")
		openPct       = flag.Float64("open-share", cfg.OpenOpportunityPct, "share of opportunities with status open")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write the dataset JSON files")
		writeStdout   = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumOrganizations:   *orgs,
		NumPeople:          *people,
		NumOpportunities:   *opportunities,
		NumEvents:          *events,
		AvgConnections:     *connections,
		ColleagueChance:    clampProbability(*colleague),
		InactiveChance:     clampProbability(*inactive),
		OpenOpportunityPct: clampProbability(*openPct),
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(d); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := dataset.Write(d, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	counts := d.Counts()
	fmt.Fprintf(os.Stdout, "Generated %d people, %d relationships and %d opportunities into %s\n",
		counts["people"], counts["relationships"], counts["opportunities"], *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
