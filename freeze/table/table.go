package table

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Table is a two-dimensional table: named columns and rows of string
// cells. Every row has exactly one cell per column.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New returns an empty table with the given column names.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AppendRow adds one row. The number of cells must match the number
// of columns.
func (t *Table) AppendRow(cells ...string) error {
	const errCtx = "appending row"

	if len(cells) != len(t.Columns) {
		return fmt.Errorf(
			"%s: got %d cells, want %d",
			errCtx, len(cells), len(t.Columns),
		)
	}

	t.Rows = append(t.Rows, cells)

	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Cell returns the value at the given row index and named column.
func (t *Table) Cell(row int, column string) (string, error) {
	const errCtx = "reading cell"

	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf(
			"%s: row %d out of range", errCtx, row,
		)
	}

	for i, c := range t.Columns {
		if c == column {
			return t.Rows[row][i], nil
		}
	}

	return "", fmt.Errorf(
		"%s: unknown column %q", errCtx, column,
	)
}

// Equal reports whether both tables have identical columns and
// cells.
func (t *Table) Equal(o *Table) bool {
	if o == nil {
		return false
	}

	if !equalStrings(t.Columns, o.Columns) {
		return false
	}

	if len(t.Rows) != len(o.Rows) {
		return false
	}

	for i := range t.Rows {
		if !equalStrings(t.Rows[i], o.Rows[i]) {
			return false
		}
	}

	return true
}

// Validate checks for duplicate column names and ragged rows.
func (t *Table) Validate() error {
	const errCtx = "validating table"

	seen := make(map[string]struct{}, len(t.Columns))

	for _, c := range t.Columns {
		if _, ok := seen[c]; ok {
			return fmt.Errorf(
				"%s: duplicate column %q", errCtx, c,
			)
		}

		seen[c] = struct{}{}
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf(
				"%s: row %d has %d cells, want %d",
				errCtx, i, len(row), len(t.Columns),
			)
		}
	}

	return nil
}

// WriteFile validates the table and serializes it to path,
// overwriting an existing file.
func (t *Table) WriteFile(path string) error {
	const errCtx = "writing table"

	if err := t.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", errCtx, err)
	}

	data = append(data, '\n')

	//nolint:gosec // artifacts are shared read-only files
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Load reads and validates a serialized table from path.
func Load(path string) (*Table, error) {
	const errCtx = "loading table"

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the dataset layout
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var t Table

	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf(
			"%s: parse json: %w", errCtx, err,
		)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &t, nil
}

// equalStrings compares two string slices element-wise.
func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
