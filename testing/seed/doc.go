// Package seed generates synthetic proteomics datasets for
// integration tests and demos. Given a sample count, an analyte
// count, and a random seed it produces a deterministic data
// table, annotation table, and baseline in the standard freeze
// layout.
package seed
