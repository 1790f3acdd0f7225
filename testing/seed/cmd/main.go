// Command seed_dataset generates a synthetic proteomics dataset
// in the standard freeze layout, baseline included. Useful for
// trying the freeze workflow without a real data source.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/somafreeze/testing/seed"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running seed_dataset"

	root := flag.String(
		"root", "",
		"Data root directory to seed into",
	)
	name := flag.String(
		"name", "demo",
		"Dataset name",
	)
	version := flag.String(
		"version", "1.0",
		"Dataset version",
	)
	samples := flag.Int(
		"samples", 16,
		"Number of sample rows",
	)
	analytes := flag.Int(
		"analytes", 32,
		"Number of measurement columns",
	)
	seedValue := flag.Int64(
		"seed", 1,
		"Random seed for reproducible data",
	)

	flag.Parse()

	cfg := seed.Config{
		Root:     *root,
		Name:     *name,
		Version:  *version,
		Samples:  *samples,
		Analytes: *analytes,
		Seed:     *seedValue,
	}

	mapping, err := seed.Run(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, pa := range mapping.Paths() {
		fmt.Printf("%s  %s\n", mapping[pa], pa)
	}

	return nil
}
