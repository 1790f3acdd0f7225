// Package digest computes content hashes for the files of a versioned
// data folder. Digests are content-addressed: identical bytes yield the
// identical hex digest regardless of path. A Collector lists a dataset's
// data/ directory (flat, regular files only; anything else is a layout
// violation) and returns a Mapping from absolute file path to digest,
// optionally hashing files with a bounded worker pool.
//
// The default algorithm is md5, the well-known 128-bit non-cryptographic
// content hash existing baseline files were built with. xxh3-128 and
// sha256 are available behind the same hex-string contract. Baseline
// files do not record which algorithm produced them, so switching
// algorithms is a breaking change for every stored baseline: verifying
// with a different algorithm reports all files as mismatched.
package digest
