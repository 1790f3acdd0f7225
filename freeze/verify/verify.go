package verify

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/byte4ever/somafreeze/freeze/baseline"
	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
)

// ErrMismatch reports that collected digests diverge from the
// baseline.
var ErrMismatch = errors.New("digests do not match baseline")

// Entry describes one divergent file. An empty Baseline means the
// file is absent from the baseline, an empty Current means the
// file is missing from disk.
type Entry struct {
	Path     string
	Baseline string
	Current  string
}

// String formats the entry as one human-readable line.
func (e Entry) String() string {
	base := e.Baseline
	if base == "" {
		base = "(absent)"
	}

	current := e.Current
	if current == "" {
		current = "(missing)"
	}

	return fmt.Sprintf(
		"%s: baseline=%s current=%s",
		e.Path, base, current,
	)
}

// Report holds every divergence found during a comparison,
// sorted by path.
type Report struct {
	Entries []Entry
}

// Clean reports whether the comparison found no divergence.
func (r Report) Clean() bool {
	return len(r.Entries) == 0
}

// String formats the report as one line per divergent file.
func (r Report) String() string {
	lines := make([]string, 0, len(r.Entries))

	for _, e := range r.Entries {
		lines = append(lines, e.String())
	}

	return strings.Join(lines, "\n")
}

// Compare diffs current digests against baseline digests and
// returns every divergence. A clean report means both mappings
// agree on paths and digests.
func Compare(current, base digest.Mapping) Report {
	var entries []Entry

	for pa, dg := range current {
		bd, ok := base[pa]

		switch {
		case !ok:
			entries = append(entries, Entry{
				Path:    pa,
				Current: dg,
			})
		case bd != dg:
			entries = append(entries, Entry{
				Path:     pa,
				Baseline: bd,
				Current:  dg,
			})
		}
	}

	for pa, dg := range base {
		if _, ok := current[pa]; !ok {
			entries = append(entries, Entry{
				Path:     pa,
				Baseline: dg,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return Report{Entries: entries}
}

// Run collects fresh digests for the dataset, loads its baseline
// and compares the two. A non-clean report is returned together
// with an error wrapping ErrMismatch. Collection and baseline
// failures surface as-is.
func Run(
	loc dataset.Locator,
	c digest.Collector,
) (Report, error) {
	const errCtx = "verifying dataset"

	current, err := c.Collect(loc)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	base, err := baseline.Load(loc)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	rep := Compare(current, base)
	if !rep.Clean() {
		return rep, fmt.Errorf(
			"%s: %s: %d file(s): %w",
			errCtx, loc.String(), len(rep.Entries),
			ErrMismatch,
		)
	}

	slog.Info(
		"dataset verified",
		"dataset", loc.String(),
		"files", len(current),
	)

	return rep, nil
}
