// Package registry provides git operations for publishing frozen
// dataset baselines and a strategy interface for opening pull
// requests across different git hosting platforms.
//
// The Provider interface abstracts PR creation. Implementations
// exist for GitHub, GitLab, and Bitbucket Server in sub-packages.
// ProviderFunc is a convenience adapter that lets plain functions
// satisfy the interface.
//
// Repo wraps a local git clone of the registry repository with
// methods for branching, committing, and pushing. Clone creates a
// new Repo from a remote URL with optional mirror reference.
package registry
