// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/config"
	"github.com/staranto/statsctl/internal/meta"
	"github.com/staranto/statsctl/internal/sorting"
)

// pqCommandAction is the action handler for the "pq" subcommand. It lists
// the bStats plugins with their current counts, or with --id the bStats and
// SpigotMC detail of one plugin.
func pqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if id := cmd.String("id"); id != "" {
		n, err := strconv.Atoi(id)
		if err != nil {
			return fmt.Errorf("--id must be a numeric plugin id: %w", err)
		}
		runner := &QueryActionRunner[*PluginDetailRow]{
			CommandName:  "pq",
			SchemaType:   reflect.TypeOf(PluginDetailRow{}),
			DefaultAttrs: []string{".id", "name", "servers", "players", "downloads", "version"},
			Remote:       true,
			FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*PluginDetailRow, error) {
				d, err := r.Aggregator.PluginDetail(ctx, n)
				if err != nil {
					return nil, err
				}
				return []*PluginDetailRow{pluginDetailRow(d)}, nil
			},
		}
		return runner.Run(ctx, cmd)
	}

	runner := &QueryActionRunner[*PluginRow]{
		CommandName:  "pq",
		SchemaType:   reflect.TypeOf(PluginRow{}),
		DefaultAttrs: []string{".id", "name", "servers", "players"},
		Remote:       true,
		FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*PluginRow, error) {
			pin, _ := config.GetString("pin.plugin", sorting.DefaultPinnedPlugin)

			if cmd.Bool("list") {
				list, err := r.Aggregator.Plugins.List(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]*PluginRow, 0, len(list))
				for _, p := range sorting.Projects(list, pin) {
					rows = append(rows, pluginRow(p, nil))
				}
				return rows, nil
			}

			res, err := r.Aggregator.Plugins.All(ctx)
			if err != nil {
				return nil, err
			}
			stats := detailsByID(res)

			rows := make([]*PluginRow, 0, len(res.List))
			for _, p := range sorting.Projects(res.List, pin) {
				rows = append(rows, pluginRow(p, stats[p.Key()]))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// detailsByID indexes the resolved details of res by id.
func detailsByID[L, D any](res aggregate.Result[L, D]) map[string]*D {
	m := make(map[string]*D, len(res.IDs))
	for i, id := range res.IDs {
		m[id] = &res.Details[i]
	}
	return m
}

// pqCommandBuilder constructs the cli.Command for "pq", wiring metadata,
// flags, and action/validator handlers.
func pqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "pq",
		Usage:     "minecraft plugin query",
		UsageText: "statsctl pq [--id plugin | --list] [options]",
		Flags:     []cli.Flag{newIDFlag(), newListFlag()},
		Remote:    true,
		Action:    pqCommandAction,
		Meta:      meta,
	}).Build()
}

