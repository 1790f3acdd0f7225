// Package versionmsg generates and parses dataset version lists
// embedded in git commit messages. Versions are encoded between
// marker lines so that the freezer can detect which dataset
// versions a registry commit carries.
package versionmsg
