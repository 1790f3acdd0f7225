// Package versionmsg generates and parses dataset version lists
// embedded in git commit messages.
package versionmsg

import (
	"log"
	"strings"
)

const (
	begin = "--- somafreeze datasets begin ---"
	end   = "--- somafreeze datasets end ---"
)

// ExtractDatasets extracts the list of dataset versions from a
// commit message delimited by begin/end markers. Entries are
// name@version strings.
func ExtractDatasets(msg string) []string {
	var datasets []string

	betweenMarkers := false

	for _, line := range strings.Split(msg, "\n") {
		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if betweenMarkers {
				datasets = append(datasets, line)
			}
		}
	}

	if betweenMarkers {
		log.Print("unable to find end marker in commit message")

		return nil
	}

	return datasets
}

// Generate produces a commit message section containing the given
// list of dataset versions between begin/end markers.
func Generate(datasets []string) string {
	var sb strings.Builder

	sb.WriteByte('\n')
	sb.WriteString(begin)
	sb.WriteByte('\n')

	for _, d := range datasets {
		sb.WriteString(d)
		sb.WriteByte('\n')
	}

	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}
