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

func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*PaperRow]{
		CommandName:  "rq",
		SchemaType:   reflect.TypeOf(PaperRow{}),
		DefaultAttrs: []string{"published", "type", "title::48"},
		FetchFn: func(context.Context, *cli.Command, *Remote) ([]*PaperRow, error) {
			var rows []*PaperRow
			for _, p := range catalog.Papers() {
				rows = append(rows, paperRow(p))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:   "rq",
		Usage:  "research paper query",
		Action: rqCommandAction,
		Meta:   meta,
	}).Build()
}
