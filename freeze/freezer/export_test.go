package freezer

// Exported aliases for testing internal functions from
// freezer_test package.

// GroupByNameForTest exposes groupByName.
var GroupByNameForTest = groupByName

// SortedNamesForTest exposes sortedNames.
var SortedNamesForTest = sortedNames

// HasDroppedDatasetsForTest exposes hasDroppedDatasets.
var HasDroppedDatasetsForTest = hasDroppedDatasets

// DatasetStringsForTest exposes datasetStrings.
var DatasetStringsForTest = datasetStrings

// TemplateVarsForTest exposes templateVars.
var TemplateVarsForTest = templateVars

// CopyBaselineForTest exposes copyBaseline.
var CopyBaselineForTest = copyBaseline
