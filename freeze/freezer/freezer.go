package freezer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/somafreeze/freeze/baseline"
	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
	"github.com/byte4ever/somafreeze/freeze/export"
	"github.com/byte4ever/somafreeze/freeze/module"
	"github.com/byte4ever/somafreeze/freeze/registry"
	"github.com/byte4ever/somafreeze/freeze/versionmsg"
)

// Config holds all settings for a freeze run. Use a Config
// struct instead of many arguments.
type Config struct {
	// Datasets are the dataset versions to freeze.
	Datasets []dataset.Locator

	// Loader obtains each dataset's data module. Required
	// unless SnapshotOnly is set.
	Loader module.Loader

	// SnapshotOnly skips the export step and only locks
	// baselines for data already on disk.
	SnapshotOnly bool

	// Algorithm selects the digest algorithm. Empty means
	// the default.
	Algorithm digest.Algorithm

	// HashParallelism bounds concurrent file hashing.
	HashParallelism int

	// RegistryRepo is the remote registry repository URL.
	// Empty disables publication.
	RegistryRepo string

	// RegistryMirror is an optional local mirror path.
	RegistryMirror string

	// RegistryPath restricts the registry sparse checkout
	// to a subdirectory (empty means root).
	RegistryPath string

	// TmpDir is the directory for temporary clones.
	TmpDir string

	// PrimaryBranch is the registry main branch (e.g. "main").
	PrimaryBranch string

	// BranchPrefix prepended to freeze branch names.
	BranchPrefix string

	// BranchSuffix appended to freeze branch names.
	BranchSuffix string

	// PRTitle is the title template for created pull
	// requests. {name} and {versions} are substituted.
	PRTitle string

	// PRBody is the body template for created pull requests.
	PRBody string

	// DryRun skips push and PR creation when true.
	DryRun bool

	// Provider creates pull requests on a git hosting
	// platform.
	Provider registry.Provider
}

// Run executes the full freeze workflow. It exports each
// dataset, snapshots baselines, clones the registry, copies
// baselines onto per-dataset branches, pushes them, and creates
// PRs.
func Run(ctx context.Context, cfg Config) error {
	const errCtx = "running freeze"

	if err := validate(cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	collector := digest.Collector{
		Algorithm:   cfg.Algorithm,
		Parallelism: cfg.HashParallelism,
	}

	// Step 1: Export and snapshot each dataset.
	for _, loc := range cfg.Datasets {
		if err := processDataset(
			ctx, cfg, collector, loc,
		); err != nil {
			return fmt.Errorf(
				"%s: dataset %s: %w",
				errCtx, loc.String(), err,
			)
		}
	}

	// Step 2: Publish baselines to the registry.
	if cfg.RegistryRepo == "" {
		slog.Info(
			"no registry configured, skipping publication",
		)

		return nil
	}

	if err := publish(ctx, cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// validate checks the configuration before any side effect
// happens.
func validate(cfg Config) error {
	const errCtx = "validating config"

	if len(cfg.Datasets) == 0 {
		return fmt.Errorf(
			"%s: no datasets configured", errCtx,
		)
	}

	if !cfg.SnapshotOnly && cfg.Loader == nil {
		return fmt.Errorf(
			"%s: loader must be set unless snapshot only",
			errCtx,
		)
	}

	if cfg.RegistryRepo != "" &&
		!cfg.DryRun &&
		cfg.Provider == nil {
		return fmt.Errorf(
			"%s: provider must be set when publishing",
			errCtx,
		)
	}

	for _, loc := range cfg.Datasets {
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}

// processDataset exports one dataset version and locks its
// baseline.
func processDataset(
	ctx context.Context,
	cfg Config,
	collector digest.Collector,
	loc dataset.Locator,
) error {
	if !cfg.SnapshotOnly {
		exp := export.Exporter{Loader: cfg.Loader}

		if err := exp.Export(ctx, loc); err != nil {
			return err
		}
	}

	_, err := baseline.Snapshot(loc, collector)

	return err
}

// publish clones the registry, copies baselines onto one branch
// per dataset name, pushes updated branches, and opens PRs.
func publish(ctx context.Context, cfg Config) error {
	const errCtx = "publishing baselines"

	cloneDir := filepath.Join(
		cfg.TmpDir, "somafreeze-registry",
	)

	repo, err := registry.Clone(
		cfg.RegistryRepo,
		cloneDir,
		cfg.RegistryMirror,
		cfg.PrimaryBranch,
		cfg.RegistryPath,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: clone registry: %w", errCtx, err,
		)
	}

	defer func() {
		if cleanErr := repo.Clean(); cleanErr != nil {
			slog.Error(
				"failed to clean registry clone",
				"error", cleanErr,
			)
		}
	}()

	// Fetch freeze branch patterns.
	repo.Fetch(cfg.BranchPrefix + "*")

	groups := groupByName(cfg.Datasets)

	var updatedBranches []string

	prVars := make(map[string]map[string]interface{})

	for _, name := range sortedNames(groups) {
		locs := groups[name]
		branch := cfg.BranchPrefix + name + cfg.BranchSuffix

		updated, pubErr := publishDataset(
			repo, cfg, branch, locs,
		)
		if pubErr != nil {
			return fmt.Errorf(
				"%s: dataset %s: %w",
				errCtx, name, pubErr,
			)
		}

		if updated {
			updatedBranches = append(
				updatedBranches, branch,
			)
			prVars[branch] = templateVars(name, locs)
		}
	}

	if len(updatedBranches) == 0 {
		slog.Info("no branches updated, skipping push")

		return nil
	}

	if cfg.DryRun {
		slog.Info(
			"dry run: skipping push and PR creation",
			"branches", updatedBranches,
		)

		return nil
	}

	repo.Push(updatedBranches)

	for _, branch := range updatedBranches {
		title := fasttemplate.ExecuteStringStd(
			cfg.PRTitle, "{", "}", prVars[branch],
		)
		body := fasttemplate.ExecuteStringStd(
			cfg.PRBody, "{", "}", prVars[branch],
		)

		if err := cfg.Provider.CreatePR(
			ctx,
			branch,
			cfg.PrimaryBranch,
			title,
			body,
		); err != nil {
			return fmt.Errorf(
				"%s: create PR for %s: %w",
				errCtx, branch, err,
			)
		}
	}

	return nil
}

// publishDataset handles a single dataset branch: switches
// branch, copies baselines, and commits. Returns true if changes
// were committed.
func publishDataset(
	repo *registry.Repo,
	cfg Config,
	branch string,
	locs []dataset.Locator,
) (bool, error) {
	const errCtx = "publishing dataset baselines"

	isNew := repo.SwitchToBranch(
		branch, cfg.PrimaryBranch,
	)

	datasets := datasetStrings(locs)

	// A dropped version means the branch content no longer
	// matches the plan, so rebuild it from the primary branch.
	if !isNew {
		lastMsg := repo.GetLastCommitMessage()
		prev := versionmsg.ExtractDatasets(lastMsg)

		if hasDroppedDatasets(prev, datasets) {
			slog.Info(
				"recreating branch due to dropped "+
					"versions",
				"branch", branch,
			)

			repo.RecreateBranch(
				branch, cfg.PrimaryBranch,
			)
		}
	}

	// Copy each version's baseline into the registry tree.
	for _, loc := range locs {
		if err := copyBaseline(
			repo.Dir, cfg.RegistryPath, loc,
		); err != nil {
			return false, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	changed := repo.GetChangedFiles()

	slog.Info(
		"registry changes",
		"branch", branch,
		"files", changed,
	)

	msg := "Freeze " +
		strings.Join(datasets, ", ") +
		"\n" +
		versionmsg.Generate(datasets)

	committed := repo.Commit(msg, cfg.RegistryPath)

	return committed, nil
}

// copyBaseline copies a version's baseline file into the
// registry working tree at
// <registryPath>/<name>/<version>/<baseline name>.
func copyBaseline(
	repoDir string,
	registryPath string,
	loc dataset.Locator,
) error {
	const errCtx = "copying baseline"

	src := loc.BaselineFile()

	data, err := os.ReadFile(src) //nolint:gosec // path follows the dataset layout
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf(
				"%s: %s: %w",
				errCtx, src, dataset.ErrNotFound,
			)
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	destDir := filepath.Join(
		repoDir, registryPath, loc.Name, loc.Version,
	)

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	dest := filepath.Join(destDir, filepath.Base(src))

	//nolint:gosec // registry files are shared data
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// groupByName groups locators by dataset name. Versions within
// each group are sorted for deterministic ordering.
func groupByName(
	locs []dataset.Locator,
) map[string][]dataset.Locator {
	groups := make(map[string][]dataset.Locator)

	for _, loc := range locs {
		groups[loc.Name] = append(groups[loc.Name], loc)
	}

	for name := range groups {
		sort.Slice(groups[name], func(i, j int) bool {
			return groups[name][i].Version <
				groups[name][j].Version
		})
	}

	return groups
}

// sortedNames returns the group keys in sorted order so branch
// processing is deterministic across runs.
func sortedNames(
	groups map[string][]dataset.Locator,
) []string {
	names := make([]string, 0, len(groups))

	for name := range groups {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// hasDroppedDatasets returns true if any previously published
// version is missing from the current set.
func hasDroppedDatasets(
	prev []string,
	current []string,
) bool {
	cur := make(map[string]struct{}, len(current))
	for _, d := range current {
		cur[d] = struct{}{}
	}

	for _, d := range prev {
		if _, ok := cur[d]; !ok {
			return true
		}
	}

	return false
}

// datasetStrings formats locators as name@version strings.
func datasetStrings(locs []dataset.Locator) []string {
	out := make([]string, 0, len(locs))

	for _, loc := range locs {
		out = append(out, loc.String())
	}

	return out
}

// templateVars builds the PR template substitution map for one
// dataset branch.
func templateVars(
	name string,
	locs []dataset.Locator,
) map[string]interface{} {
	versions := make([]string, 0, len(locs))

	for _, loc := range locs {
		versions = append(versions, loc.Version)
	}

	return map[string]interface{}{
		"name":     name,
		"versions": strings.Join(versions, ", "),
	}
}
