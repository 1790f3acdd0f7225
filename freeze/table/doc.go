// Package table holds tabular data as named columns and rows of string
// cells, with a JSON codec for the exported artifact files. Cells stay
// strings end to end so serialized bytes are deterministic and the
// resulting files digest reproducibly.
package table
