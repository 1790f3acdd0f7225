// Package export writes a dataset version's tables into the
// freeze layout.
//
// The exporter asks a module loader for the primary data table
// and the annotation table, then serializes both under the
// version's data directory. It deliberately stops there: locking
// checksums is a separate step so a human can inspect the export
// first.
package export
