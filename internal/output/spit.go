// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/statsctl/internal/attrs"
	"github.com/staranto/statsctl/internal/filters"
)

// Options are the output flags of a query command.
type Options struct {
	Output string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// OptionsFrom reads the common output flags of cmd.
func OptionsFrom(cmd *cli.Command) Options {
	return Options{
		Output: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// SliceDiceSpit selects parent from raw (the whole document when parent is
// empty), filters, sorts and transforms the rows and renders them to w.
// Sorting happens before transforms so numbers still sort as numbers.
func SliceDiceSpit(raw []byte, al attrs.AttrList, opts Options, parent string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	dataset := gjson.ParseBytes(raw)
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	rows := filters.FilterDataset(dataset, al, opts.Filter)
	SortDataset(rows, opts.Sort)

	for _, row := range rows {
		for i := range al {
			attr := &al[i]
			if attr.Key != "*" && attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	switch opts.Output {
	case "json":
		b, err := json.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return TableWriter(rows, al, opts, w)
	}
}

// visible drops the attrs that are only there for filtering and sorting.
// The result is never nil so an empty set encodes as [].
func visible(rows []map[string]interface{}, al attrs.AttrList) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		v := make(map[string]interface{}, len(row))
		for _, attr := range al {
			if attr.Include {
				v[attr.OutputKey] = row[attr.OutputKey]
			}
		}
		out = append(out, v)
	}
	return out
}
