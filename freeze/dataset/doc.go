// Package dataset resolves dataset locators to the conventional on-disk
// layout of versioned data folders. A Locator is the (root, name, version)
// triple that maps deterministically to <root>/<name>/<version>/, with
// exported artifacts under data/ and the checksum baseline one level above.
//
// The layout names are fixed: existing version folders and baseline files
// were written with them, and changing any of them breaks compatibility
// with already stored data.
package dataset
