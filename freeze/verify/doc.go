// Package verify compares freshly collected digests against a
// dataset's baseline.
//
// Any divergence is a hard stop: a changed file, a file missing
// from disk, and a file missing from the baseline all fail
// verification. The Report lists every divergent path with both
// digests so the operator sees the full damage at once instead of
// chasing mismatches one by one.
package verify
