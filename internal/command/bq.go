// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/catalog"
	"github.com/staranto/statsctl/internal/meta"
)

func bqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*BotRow]{
		CommandName:  "bq",
		SchemaType:   reflect.TypeOf(BotRow{}),
		DefaultAttrs: []string{"name", "servers", "users", "active"},
		FetchFn: func(context.Context, *cli.Command, *Remote) ([]*BotRow, error) {
			var rows []*BotRow
			for _, b := range catalog.Bots() {
				rows = append(rows, botRow(b))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func bqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:   "bq",
		Usage:  "discord bot query",
		Action: bqCommandAction,
		Meta:   meta,
	}).Build()
}
