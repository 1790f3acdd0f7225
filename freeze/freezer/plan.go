package freezer

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/somafreeze/freeze/dataset"
)

// Plan is a YAML description of the datasets to freeze in one
// run.
type Plan struct {
	// Root overrides the data root for all entries when set.
	Root string `yaml:"root"`

	// Datasets lists the dataset versions to freeze.
	Datasets []PlanEntry `yaml:"datasets"`
}

// PlanEntry names one dataset version.
type PlanEntry struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoadPlan reads and validates a freeze plan from path.
func LoadPlan(path string) (*Plan, error) {
	const errCtx = "loading freeze plan"

	data, err := os.ReadFile(path) //nolint:gosec // path comes from a CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var p Plan

	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf(
			"%s: parse yaml: %w", errCtx, err,
		)
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &p, nil
}

func (p *Plan) validate() error {
	const errCtx = "validating plan"

	if len(p.Datasets) == 0 {
		return fmt.Errorf("%s: no datasets listed", errCtx)
	}

	seen := make(map[string]struct{}, len(p.Datasets))

	for i, e := range p.Datasets {
		if e.Name == "" || e.Version == "" {
			return fmt.Errorf(
				"%s: entry %d misses name or version",
				errCtx, i,
			)
		}

		key := e.Name + "@" + e.Version
		if _, ok := seen[key]; ok {
			return fmt.Errorf(
				"%s: duplicate entry %s", errCtx, key,
			)
		}

		seen[key] = struct{}{}
	}

	return nil
}

// Locators resolves the plan entries against a data root. The
// plan's own root wins over fallbackRoot when both are set.
func (p *Plan) Locators(
	fallbackRoot string,
) []dataset.Locator {
	root := p.Root
	if root == "" {
		root = fallbackRoot
	}

	locs := make([]dataset.Locator, 0, len(p.Datasets))

	for _, e := range p.Datasets {
		locs = append(locs, dataset.Locator{
			Root:    root,
			Name:    e.Name,
			Version: e.Version,
		})
	}

	return locs
}
