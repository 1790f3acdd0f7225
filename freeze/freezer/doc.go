// Package freezer orchestrates the full dataset freeze workflow.
// It exports each dataset's tables, locks their digests into
// baseline files, and optionally publishes the baselines to a git
// registry where a pull request per dataset gives a human the
// final say before the freeze lands.
package freezer
