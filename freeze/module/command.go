package module

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/exec"
	"github.com/byte4ever/somafreeze/freeze/table"
)

// Command loads a data module by running an external program and
// parsing its standard output as JSON. The output must be one
// object with "data" and "annotations" table fields.
//
// Arguments may carry {name}, {version}, {root} and {dir}
// placeholders, replaced with the dataset's coordinates before
// the program runs. Unknown placeholders are passed through
// untouched.
type Command struct {
	// Cmd is the program to run.
	Cmd string

	// Args are the program arguments, expanded per dataset.
	Args []string

	// Dir is the working directory. Empty means the current
	// directory.
	Dir string
}

type payload struct {
	Data        *table.Table `json:"data"`
	Annotations *table.Table `json:"annotations"`
}

type loaded struct {
	data *table.Table
	ann  *table.Table
}

func (l loaded) Data() *table.Table {
	return l.data
}

func (l loaded) Annotations() *table.Table {
	return l.ann
}

// Load implements the Loader interface.
func (c Command) Load(
	ctx context.Context,
	loc dataset.Locator,
) (DataModule, error) {
	const errCtx = "loading module from command"

	out, err := exec.Out(
		ctx,
		c.Dir,
		c.Cmd,
		expandArgs(c.Args, loc)...,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var pl payload

	if err := json.Unmarshal([]byte(out), &pl); err != nil {
		return nil, fmt.Errorf(
			"%s: parsing output: %w", errCtx, err,
		)
	}

	if pl.Data == nil || pl.Annotations == nil {
		return nil, fmt.Errorf(
			"%s: output misses data or annotations table",
			errCtx,
		)
	}

	if err := pl.Data.Validate(); err != nil {
		return nil, fmt.Errorf(
			"%s: data table: %w", errCtx, err,
		)
	}

	if err := pl.Annotations.Validate(); err != nil {
		return nil, fmt.Errorf(
			"%s: annotation table: %w", errCtx, err,
		)
	}

	return loaded{data: pl.Data, ann: pl.Annotations}, nil
}

func expandArgs(
	args []string,
	loc dataset.Locator,
) []string {
	vars := map[string]interface{}{
		"name":    loc.Name,
		"version": loc.Version,
		"root":    loc.Root,
		"dir":     loc.Dir(),
	}

	expanded := make([]string, 0, len(args))

	for _, arg := range args {
		expanded = append(
			expanded,
			fasttemplate.ExecuteStringStd(
				arg, "{", "}", vars,
			),
		)
	}

	return expanded
}
