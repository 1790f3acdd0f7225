package module

import (
	"context"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/table"
)

// DataModule exposes the two tables a dataset version consists
// of.
type DataModule interface {
	// Data returns the primary measurement table.
	Data() *table.Table

	// Annotations returns the annotation table describing the
	// measurement columns.
	Annotations() *table.Table
}

// Loader obtains the data module for a dataset.
//
// Pattern: Strategy -- exporting code depends on this interface
// only, so tables can come from memory, an external command or
// anything else without the exporter changing.
type Loader interface {
	Load(
		ctx context.Context,
		loc dataset.Locator,
	) (DataModule, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(
	ctx context.Context,
	loc dataset.Locator,
) (DataModule, error)

// Load implements the Loader interface.
func (f LoaderFunc) Load(
	ctx context.Context,
	loc dataset.Locator,
) (DataModule, error) {
	return f(ctx, loc)
}

// Static is a DataModule held fully in memory.
type Static struct {
	DataTable *table.Table
	AnnTable  *table.Table
}

// Data implements the DataModule interface.
func (s Static) Data() *table.Table {
	return s.DataTable
}

// Annotations implements the DataModule interface.
func (s Static) Annotations() *table.Table {
	return s.AnnTable
}
