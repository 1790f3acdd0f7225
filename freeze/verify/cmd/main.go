// Command verify_freeze checks frozen datasets against their
// baselines and prints every divergent file with both digests.
// Exits non-zero when any dataset fails verification.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
	"github.com/byte4ever/somafreeze/freeze/freezer"
	"github.com/byte4ever/somafreeze/freeze/verify"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running verification"

	root := flag.String(
		"root", "",
		"Data root directory holding all datasets",
	)
	planPath := flag.String(
		"plan", "",
		"YAML freeze plan path (overrides name/version)",
	)
	name := flag.String(
		"name", "",
		"Dataset name to verify",
	)
	version := flag.String(
		"version", "",
		"Dataset version to verify",
	)
	algorithm := flag.String(
		"algorithm", "",
		"Digest algorithm: md5, xxh3-128, or sha256",
	)
	parallelism := flag.Int(
		"hash_parallelism", 1,
		"Number of concurrent hash workers",
	)

	flag.Parse()

	algo, err := digest.ParseAlgorithm(*algorithm)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	datasets, err := resolveDatasets(
		*planPath, *root, *name, *version,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	collector := digest.Collector{
		Algorithm:   algo,
		Parallelism: *parallelism,
	}

	// Verification covers every dataset before failing, so a
	// single run shows the full damage.
	failed := 0

	for _, loc := range datasets {
		rep, verr := verify.Run(loc, collector)

		switch {
		case verr == nil:
			fmt.Printf("%s: ok\n", loc.String())
		case errors.Is(verr, verify.ErrMismatch):
			failed++

			fmt.Printf(
				"%s: mismatch\n%s\n",
				loc.String(), rep.String(),
			)
		default:
			return fmt.Errorf(
				"%s: %s: %w",
				errCtx, loc.String(), verr,
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf(
			"%s: %d dataset(s) failed verification",
			errCtx, failed,
		)
	}

	return nil
}

// resolveDatasets builds the locator list from either a freeze
// plan or a single name/version pair.
func resolveDatasets(
	planPath string,
	root string,
	name string,
	version string,
) ([]dataset.Locator, error) {
	const errCtx = "resolving datasets"

	if planPath != "" {
		plan, err := freezer.LoadPlan(planPath)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return plan.Locators(root), nil
	}

	if name == "" || version == "" {
		return nil, fmt.Errorf(
			"%s: need either -plan or -name and -version",
			errCtx,
		)
	}

	return []dataset.Locator{{
		Root:    root,
		Name:    name,
		Version: version,
	}}, nil
}
