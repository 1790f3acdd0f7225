package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Layout names within a version folder. Fixed by convention.
const (
	// DataDirName is the subdirectory holding exported artifacts.
	DataDirName = "data"

	// DataFileName is the serialized primary data table.
	DataFileName = "soma_data.json"

	// AnnFileName is the serialized annotation table.
	AnnFileName = "soma_ann.json"

	// baselineFormat names the baseline file for a version.
	baselineFormat = "md5sums_v_%s.json"
)

// ErrNotFound reports an expected dataset directory or file that
// does not exist.
var ErrNotFound = errors.New("dataset path not found")

// Locator identifies one immutable dataset snapshot: a data root, a
// dataset name, and a version string. It resolves deterministically
// to <root>/<name>/<version>/.
type Locator struct {
	// Root is the data root directory holding all datasets.
	Root string

	// Name is the dataset name.
	Name string

	// Version names one snapshot of the dataset.
	Version string
}

// String returns the "<name>@<version>" form used in logs and
// commit messages.
func (l Locator) String() string {
	return l.Name + "@" + l.Version
}

// Dir returns the version folder path <root>/<name>/<version>.
func (l Locator) Dir() string {
	return filepath.Join(l.Root, l.Name, l.Version)
}

// DataDir returns the data/ subdirectory of the version folder.
func (l Locator) DataDir() string {
	return filepath.Join(l.Dir(), DataDirName)
}

// DataFile returns the path of the serialized primary data table.
func (l Locator) DataFile() string {
	return filepath.Join(l.DataDir(), DataFileName)
}

// AnnFile returns the path of the serialized annotation table.
func (l Locator) AnnFile() string {
	return filepath.Join(l.DataDir(), AnnFileName)
}

// BaselineFile returns the baseline file path, one level above
// data/ and named by version.
func (l Locator) BaselineFile() string {
	return filepath.Join(
		l.Dir(),
		fmt.Sprintf(baselineFormat, l.Version),
	)
}

// Validate checks that all three components are set and that name
// and version are plain path segments.
func (l Locator) Validate() error {
	const errCtx = "validating locator"

	if l.Root == "" {
		return fmt.Errorf("%s: root must be set", errCtx)
	}

	parts := []struct {
		field string
		value string
	}{
		{"name", l.Name},
		{"version", l.Version},
	}

	for _, part := range parts {
		if part.value == "" {
			return fmt.Errorf(
				"%s: %s must be set", errCtx, part.field,
			)
		}

		if part.value != filepath.Base(part.value) ||
			part.value == "." || part.value == ".." {
			return fmt.Errorf(
				"%s: %s %q is not a plain path segment",
				errCtx, part.field, part.value,
			)
		}
	}

	return nil
}

// CheckDir verifies the version folder exists. Fails with
// ErrNotFound when it does not.
func (l Locator) CheckDir() error {
	const errCtx = "checking version folder"

	return checkDir(errCtx, l.Dir())
}

// CheckDataDir verifies the data/ subdirectory exists. Fails with
// ErrNotFound when it does not.
func (l Locator) CheckDataDir() error {
	const errCtx = "checking data directory"

	return checkDir(errCtx, l.DataDir())
}

// checkDir stats dir and maps absence to ErrNotFound.
func checkDir(errCtx string, dir string) error {
	fi, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, dir, ErrNotFound,
		)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if !fi.IsDir() {
		return fmt.Errorf(
			"%s: %s is not a directory: %w",
			errCtx, dir, ErrNotFound,
		)
	}

	return nil
}
