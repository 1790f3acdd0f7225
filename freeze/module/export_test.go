package module

var ExpandArgsForTest = expandArgs
