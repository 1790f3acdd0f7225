package baseline

import (
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
)

// Save writes the digest mapping to the dataset's baseline file,
// replacing any previous baseline. Keys are serialized in sorted
// order, so the same mapping always produces the same bytes.
func Save(loc dataset.Locator, m digest.Mapping) error {
	const errCtx = "saving baseline"

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	data = append(data, '\n')

	err = os.WriteFile(
		loc.BaselineFile(),
		data,
		0o644, //nolint:gosec // baseline is shared data
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Load reads the dataset's baseline file. Fails with
// dataset.ErrNotFound when no baseline has been written yet.
func Load(loc dataset.Locator) (digest.Mapping, error) {
	const errCtx = "loading baseline"

	path := loc.BaselineFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"%s: %s: %w",
				errCtx, path, dataset.ErrNotFound,
			)
		}

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var mapping digest.Mapping

	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return mapping, nil
}

// Snapshot collects digests for the dataset's data directory and
// writes them as the new baseline. Returns the mapping that was
// written.
func Snapshot(
	loc dataset.Locator,
	c digest.Collector,
) (digest.Mapping, error) {
	const errCtx = "snapshotting baseline"

	mapping, err := c.Collect(loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := Save(loc, mapping); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"baseline written",
		"dataset", loc.String(),
		"files", len(mapping),
		"path", loc.BaselineFile(),
	)

	return mapping, nil
}
