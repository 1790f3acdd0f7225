// Package module abstracts the source of a dataset's tables.
//
// A data module hands over exactly two tables, the primary
// measurement data and the annotations describing its columns.
// Where those tables come from is the loader's business: Static
// serves tables already in memory, Command runs an external
// program and parses what it prints.
package module
