// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/meta"
	"github.com/staranto/statsctl/internal/sorting"
)

// aqCommandAction lists the Hugging Face models by downloads, or with --id
// one model.
func aqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*ModelRow]{
		CommandName:  "aq",
		SchemaType:   reflect.TypeOf(ModelRow{}),
		DefaultAttrs: []string{".id", "downloads"},
		Remote:       true,
		FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*ModelRow, error) {
			if id := cmd.String("id"); id != "" {
				m, err := r.Aggregator.Models.Detail(ctx, id)
				if err != nil {
					return nil, err
				}
				return []*ModelRow{modelRow(m)}, nil
			}

			if cmd.Bool("list") {
				list, err := r.Aggregator.Models.List(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]*ModelRow, 0, len(list))
				for _, m := range sorting.Models(list) {
					rows = append(rows, modelRow(m))
				}
				return rows, nil
			}

			res, err := r.Aggregator.Models.All(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]*ModelRow, 0, len(res.Details))
			for _, m := range sorting.Models(res.Details) {
				rows = append(rows, modelRow(m))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func aqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "aq",
		Usage:     "ai model query",
		UsageText: "statsctl aq [--id author/model | --list] [options]",
		Flags:     []cli.Flag{newIDFlag(), newListFlag()},
		Remote:    true,
		Action:    aqCommandAction,
		Meta:      meta,
	}).Build()
}
