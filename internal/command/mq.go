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

// mqCommandAction lists the Steam Workshop mods by reach, or with --id one
// mod.
func mqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*ModRow]{
		CommandName:  "mq",
		SchemaType:   reflect.TypeOf(ModRow{}),
		DefaultAttrs: []string{".id", "title", "game", "reach", "subscriptions"},
		Remote:       true,
		FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*ModRow, error) {
			if id := cmd.String("id"); id != "" {
				w, err := r.Aggregator.Mods.Detail(ctx, id)
				if err != nil {
					return nil, err
				}
				return []*ModRow{modRow(w)}, nil
			}

			res, err := r.Aggregator.Mods.All(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]*ModRow, 0, len(res.Details))
			for _, w := range sorting.Mods(res.Details) {
				rows = append(rows, modRow(w))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func mqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "mq",
		Usage:     "steam workshop mod query",
		UsageText: "statsctl mq [--id workshop-id] [options]",
		Flags:     []cli.Flag{newIDFlag()},
		Remote:    true,
		Action:    mqCommandAction,
		Meta:      meta,
	}).Build()
}
