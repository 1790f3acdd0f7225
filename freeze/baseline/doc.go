// Package baseline persists digest mappings as baseline files
// inside dataset version directories.
//
// A baseline locks the digests of a dataset's data files at a
// chosen moment. Writing one is separate from exporting the data
// so that a human can inspect the export before its checksums are
// locked. Snapshot combines collection and persistence for the
// common case.
package baseline
