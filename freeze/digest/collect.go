package digest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/byte4ever/somafreeze/freeze/dataset"
)

// ErrUnexpectedEntry reports a non-regular entry (subdirectory,
// symlink, device) inside a data directory.
var ErrUnexpectedEntry = errors.New(
	"unexpected non-regular entry in data directory",
)

// Mapping associates absolute file paths with hex digests. A
// Mapping is built fresh on every collection and never mutated
// afterwards; comparisons build new mappings instead of editing
// old ones.
type Mapping map[string]string

// Paths returns the mapped file paths in sorted order.
func (m Mapping) Paths() []string {
	paths := make([]string, 0, len(m))

	for pa := range m {
		paths = append(paths, pa)
	}

	sort.Strings(paths)

	return paths
}

// Equal reports whether both mappings hold the same paths with
// the same digests.
func (m Mapping) Equal(o Mapping) bool {
	if len(m) != len(o) {
		return false
	}

	for pa, dg := range m {
		if od, ok := o[pa]; !ok || od != dg {
			return false
		}
	}

	return true
}

// Collector computes digest mappings for a dataset's data
// directory. The zero value uses the Default algorithm and hashes
// sequentially.
type Collector struct {
	// Algorithm selects the content hash. Empty means Default.
	Algorithm Algorithm

	// Parallelism bounds concurrent file hashing. Values below
	// two hash sequentially.
	Parallelism int
}

// Collect lists the dataset's data directory and returns one
// digest per regular file, keyed by absolute path. Fails with
// dataset.ErrNotFound when the directory does not exist and
// ErrUnexpectedEntry when it contains anything but regular files.
// Pure read; no side effects.
func (c Collector) Collect(
	loc dataset.Locator,
) (Mapping, error) {
	const errCtx = "collecting digests"

	if err := loc.CheckDataDir(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	dir := loc.DataDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	paths := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			return nil, fmt.Errorf(
				"%s: %s: %w",
				errCtx, entry.Name(), ErrUnexpectedEntry,
			)
		}

		absPath, absErr := filepath.Abs(
			filepath.Join(dir, entry.Name()),
		)
		if absErr != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, absErr,
			)
		}

		paths = append(paths, absPath)
	}

	if c.Parallelism > 1 {
		return c.collectParallel(paths)
	}

	mapping := make(Mapping, len(paths))

	for _, pa := range paths {
		dg, hashErr := CalculateFile(pa, c.Algorithm)
		if hashErr != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, hashErr,
			)
		}

		mapping[pa] = dg
	}

	return mapping, nil
}

// collectParallel hashes files with a worker pool bounded by
// c.Parallelism. The resulting mapping is identical to sequential
// collection.
func (c Collector) collectParallel(
	paths []string,
) (Mapping, error) {
	const errCtx = "collecting digests in parallel"

	slog.Info(
		"hashing files",
		"count", len(paths),
		"parallelism", c.Parallelism,
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	mapping := make(Mapping, len(paths))
	sem := make(chan struct{}, c.Parallelism)

	for _, pa := range paths {
		wg.Add(1)
		sem <- struct{}{}

		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()

			dg, err := CalculateFile(p, c.Algorithm)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, fmt.Errorf(
					"hash %s: %w", p, err,
				))

				return
			}

			mapping[p] = dg
		}(pa)
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf(
			"%s: %d errors, first: %w",
			errCtx, len(errs), errs[0],
		)
	}

	return mapping, nil
}

// Collect computes a digest mapping with the Default algorithm,
// sequentially.
func Collect(loc dataset.Locator) (Mapping, error) {
	return Collector{}.Collect(loc)
}
