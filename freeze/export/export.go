package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/module"
)

// Exporter serializes a dataset version's tables to disk.
//
// The version directory must exist before exporting; the data
// subdirectory is created when missing. Existing artifacts are
// overwritten.
type Exporter struct {
	// Loader obtains the dataset's data module.
	Loader module.Loader
}

// Export loads the dataset's module and writes its data and
// annotation tables into the version's data directory. Fails with
// dataset.ErrNotFound when the version directory does not exist
// and propagates loader failures untouched.
func (e Exporter) Export(
	ctx context.Context,
	loc dataset.Locator,
) error {
	const errCtx = "exporting dataset"

	// Step 1: check the target location.
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := loc.CheckDir(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 2: obtain the module.
	if e.Loader == nil {
		return fmt.Errorf("%s: no loader configured", errCtx)
	}

	mod, err := e.Loader.Load(ctx, loc)
	if err != nil {
		return fmt.Errorf(
			"%s: load module: %w", errCtx, err,
		)
	}

	data := mod.Data()
	ann := mod.Annotations()

	if data == nil || ann == nil {
		return fmt.Errorf(
			"%s: module misses data or annotations table",
			errCtx,
		)
	}

	// Step 3: serialize both tables.
	if err := os.MkdirAll(loc.DataDir(), 0o750); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := data.WriteFile(loc.DataFile()); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := ann.WriteFile(loc.AnnFile()); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"dataset exported",
		"dataset", loc.String(),
		"rows", data.NumRows(),
		"annotations", ann.NumRows(),
	)

	return nil
}
