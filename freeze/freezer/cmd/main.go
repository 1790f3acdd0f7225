// Command freeze orchestrates dataset freezes. It exports
// dataset tables through a module loader, locks their digests
// into baseline files, and publishes the baselines to a git
// registry with one PR per dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
	"github.com/byte4ever/somafreeze/freeze/freezer"
	"github.com/byte4ever/somafreeze/freeze/module"
	"github.com/byte4ever/somafreeze/freeze/registry"
	"github.com/byte4ever/somafreeze/freeze/registry/bitbucket"
	"github.com/byte4ever/somafreeze/freeze/registry/github"
	"github.com/byte4ever/somafreeze/freeze/registry/gitlab"
)

// sliceFlag implements flag.Value for multi-value
// string flags (repeated --flag=val usage).
type sliceFlag []string

// String returns the flag value as a comma-separated
// string representation.
func (s *sliceFlag) String() string {
	if s == nil {
		return ""
	}

	return strings.Join(*s, ",")
}

// Set appends a value to the slice.
func (s *sliceFlag) Set(val string) error {
	*s = append(*s, val)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run() error {
	const errCtx = "running freeze"

	// Dataset flags.
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
		"Dataset name to freeze",
	)
	version := flag.String(
		"version", "",
		"Dataset version to freeze",
	)

	// Digest flags.
	snapshotOnly := flag.Bool(
		"snapshot_only", false,
		"Skip export and only lock baselines",
	)
	algorithm := flag.String(
		"algorithm", "",
		"Digest algorithm: md5, xxh3-128, or sha256",
	)
	hashParallelism := flag.Int(
		"hash_parallelism", 1,
		"Number of concurrent hash workers",
	)

	// Module loader flags.
	loaderCmd := flag.String(
		"loader_cmd", "",
		"Module loader command",
	)

	var loaderArgs sliceFlag

	flag.Var(
		&loaderArgs,
		"loader_arg",
		"Module loader argument (repeatable)",
	)

	loaderDir := flag.String(
		"loader_dir", "",
		"Module loader working directory",
	)

	// Registry flags.
	registryRepo := flag.String(
		"registry_repo", "",
		"Remote registry repository URL",
	)
	registryMirror := flag.String(
		"registry_mirror", "",
		"Local registry mirror for reference clones",
	)
	registryPath := flag.String(
		"registry_path", "",
		"Subdirectory for sparse checkout",
	)
	tmpDir := flag.String(
		"tmp_dir", os.TempDir(),
		"Temporary directory for clones",
	)

	// Branch flags.
	primaryBranch := flag.String(
		"primary_branch", "main",
		"Registry primary branch name",
	)
	branchPrefix := flag.String(
		"branch_prefix", "freeze/",
		"Prefix for freeze branch names",
	)
	branchSuffix := flag.String(
		"branch_suffix", "",
		"Suffix for freeze branch names",
	)

	// PR flags.
	prTitle := flag.String(
		"pr_title", "Freeze {name} {versions}",
		"Title template for created pull requests",
	)
	prBody := flag.String(
		"pr_body", "",
		"Body template for created pull requests",
	)
	dryRun := flag.Bool(
		"dry_run", false,
		"Skip push and PR creation",
	)

	// Git provider selection.
	gitServer := flag.String(
		"git_server", "github",
		"Git hosting platform: github, gitlab, "+
			"or bitbucket",
	)

	// GitHub-specific flags.
	ghRepoOwner := flag.String(
		"github_repo_owner", "",
		"GitHub repository owner",
	)
	ghRepo := flag.String(
		"github_repo", "",
		"GitHub repository name",
	)
	ghToken := flag.String(
		"github_access_token", "",
		"GitHub personal access token",
	)
	ghEnterprise := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)

	// GitLab-specific flags.
	glHost := flag.String(
		"gitlab_host", "",
		"GitLab instance URL",
	)
	glRepo := flag.String(
		"gitlab_repo", "",
		"GitLab project path (org/project)",
	)
	glToken := flag.String(
		"gitlab_access_token", "",
		"GitLab personal access token",
	)

	// Bitbucket-specific flags.
	bbEndpoint := flag.String(
		"bitbucket_api_endpoint", "",
		"Bitbucket Server REST API URL",
	)
	bbProjectKey := flag.String(
		"bitbucket_project_key", "",
		"Bitbucket project key",
	)
	bbRepoSlug := flag.String(
		"bitbucket_repo_slug", "",
		"Bitbucket repository slug",
	)
	bbUser := flag.String(
		"bitbucket_user", "",
		"Bitbucket API username",
	)
	bbPassword := flag.String(
		"bitbucket_password", "",
		"Bitbucket API password or token",
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

	var loader module.Loader

	if *loaderCmd != "" {
		loader = module.Command{
			Cmd:  *loaderCmd,
			Args: loaderArgs,
			Dir:  *loaderDir,
		}
	}

	// The provider is only needed when a registry push will
	// actually happen.
	var provider registry.Provider

	if *registryRepo != "" && !*dryRun {
		provider, err = newProvider(
			*gitServer,
			providerFlags{
				ghRepoOwner:  *ghRepoOwner,
				ghRepo:       *ghRepo,
				ghToken:      *ghToken,
				ghEnterprise: *ghEnterprise,
				glHost:       *glHost,
				glRepo:       *glRepo,
				glToken:      *glToken,
				bbEndpoint:   *bbEndpoint,
				bbProjectKey: *bbProjectKey,
				bbRepoSlug:   *bbRepoSlug,
				bbUser:       *bbUser,
				bbPassword:   *bbPassword,
			},
		)
		if err != nil {
			return fmt.Errorf(
				"%s: create provider: %w", errCtx, err,
			)
		}
	}

	cfg := freezer.Config{
		Datasets:        datasets,
		Loader:          loader,
		SnapshotOnly:    *snapshotOnly,
		Algorithm:       algo,
		HashParallelism: *hashParallelism,
		RegistryRepo:    *registryRepo,
		RegistryMirror:  *registryMirror,
		RegistryPath:    *registryPath,
		TmpDir:          *tmpDir,
		PrimaryBranch:   *primaryBranch,
		BranchPrefix:    *branchPrefix,
		BranchSuffix:    *branchSuffix,
		PRTitle:         *prTitle,
		PRBody:          *prBody,
		DryRun:          *dryRun,
		Provider:        provider,
	}

	if err := freezer.Run(
		context.Background(), cfg,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
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

// providerFlags bundles provider-specific flag values.
type providerFlags struct {
	ghRepoOwner  string
	ghRepo       string
	ghToken      string
	ghEnterprise string
	glHost       string
	glRepo       string
	glToken      string
	bbEndpoint   string
	bbProjectKey string
	bbRepoSlug   string
	bbUser       string
	bbPassword   string
}

// newProvider creates a registry.Provider based on the
// server name. Pattern: Factory -- selects platform
// implementation at runtime.
func newProvider(
	server string,
	pf providerFlags,
) (registry.Provider, error) {
	const errCtx = "creating git provider"

	switch server {
	case "github":
		p, err := github.NewProvider(github.Config{
			RepoOwner:      pf.ghRepoOwner,
			Repo:           pf.ghRepo,
			AccessToken:    pf.ghToken,
			EnterpriseHost: pf.ghEnterprise,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "gitlab":
		p, err := gitlab.NewProvider(gitlab.Config{
			Host:        pf.glHost,
			Repo:        pf.glRepo,
			AccessToken: pf.glToken,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "bitbucket":
		p, err := bitbucket.NewProvider(
			bitbucket.Config{
				APIEndpoint: pf.bbEndpoint,
				ProjectKey:  pf.bbProjectKey,
				RepoSlug:    pf.bbRepoSlug,
				User:        pf.bbUser,
				Password:    pf.bbPassword,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown server %q", errCtx, server,
		)
	}
}
