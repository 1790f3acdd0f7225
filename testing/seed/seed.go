package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/byte4ever/somafreeze/freeze/baseline"
	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
	"github.com/byte4ever/somafreeze/freeze/export"
	"github.com/byte4ever/somafreeze/freeze/module"
	"github.com/byte4ever/somafreeze/freeze/table"
)

// Config holds the settings for one synthetic dataset. Use a
// Config struct instead of many arguments.
type Config struct {
	// Root is the data root directory to seed into.
	Root string

	// Name is the dataset name.
	Name string

	// Version is the dataset version.
	Version string

	// Samples is the number of sample rows to generate.
	Samples int

	// Analytes is the number of measurement columns to
	// generate.
	Analytes int

	// Seed drives the random generator. The same seed always
	// produces the same dataset.
	Seed int64
}

// validate checks the configuration before generating anything.
func (c Config) validate() error {
	const errCtx = "validating seed config"

	loc := c.locator()

	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if c.Samples <= 0 {
		return fmt.Errorf(
			"%s: samples must be positive", errCtx,
		)
	}

	if c.Analytes <= 0 {
		return fmt.Errorf(
			"%s: analytes must be positive", errCtx,
		)
	}

	return nil
}

func (c Config) locator() dataset.Locator {
	return dataset.Locator{
		Root:    c.Root,
		Name:    c.Name,
		Version: c.Version,
	}
}

// Run generates the synthetic dataset, exports it, and locks its
// baseline. Returns the digest mapping that was written.
func Run(
	ctx context.Context,
	cfg Config,
) (digest.Mapping, error) {
	const errCtx = "seeding dataset"

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	loc := cfg.locator()

	if err := os.MkdirAll(loc.Dir(), 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	data, ann, err := synthesize(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	exp := export.Exporter{
		Loader: module.LoaderFunc(func(
			_ context.Context,
			_ dataset.Locator,
		) (module.DataModule, error) {
			return module.Static{
				DataTable: data,
				AnnTable:  ann,
			}, nil
		}),
	}

	if err := exp.Export(ctx, loc); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	mapping, err := baseline.Snapshot(
		loc, digest.Collector{},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"dataset seeded",
		"dataset", loc.String(),
		"samples", cfg.Samples,
		"analytes", cfg.Analytes,
	)

	return mapping, nil
}

// dilutions are the mix groups analytes are assayed at.
var dilutions = []string{"0.005%", "0.5%", "20%"}

// synthesize builds the data and annotation tables from the
// seeded random generator.
func synthesize(
	cfg Config,
) (*table.Table, *table.Table, error) {
	const errCtx = "synthesizing tables"

	rng := rand.New( //nolint:gosec // reproducible test data, not security
		rand.NewSource(cfg.Seed),
	)

	// Sequence identifiers double as measurement column names.
	// The running index keeps them unique.
	seqIDs := make([]string, 0, cfg.Analytes)

	for i := 0; i < cfg.Analytes; i++ {
		seqIDs = append(seqIDs, fmt.Sprintf(
			"seq.%05d-%02d", 10000+i, rng.Intn(100),
		))
	}

	ann := table.New("SeqId", "Target", "Dilution")

	for _, id := range seqIDs {
		err := ann.AppendRow(
			id,
			fmt.Sprintf("TGT-%04d", rng.Intn(10000)),
			dilutions[rng.Intn(len(dilutions))],
		)
		if err != nil {
			return nil, nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	columns := append([]string{"SampleId"}, seqIDs...)
	data := table.New(columns...)

	for i := 0; i < cfg.Samples; i++ {
		row := make([]string, 0, len(columns))
		row = append(row, fmt.Sprintf("S%05d", i+1))

		for range seqIDs {
			row = append(row, strconv.FormatFloat(
				rng.Float64()*10000, 'f', 1, 64,
			))
		}

		if err := data.AppendRow(row...); err != nil {
			return nil, nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	return data, ann, nil
}
