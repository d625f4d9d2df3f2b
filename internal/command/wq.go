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

// wqCommandAction lists the hand maintained 30 day website figures.
func wqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*WebsiteRow]{
		CommandName:  "wq",
		SchemaType:   reflect.TypeOf(WebsiteRow{}),
		DefaultAttrs: []string{"name", "visitors::h", "requests::h", "served::b"},
		FetchFn: func(context.Context, *cli.Command, *Remote) ([]*WebsiteRow, error) {
			var rows []*WebsiteRow
			for _, w := range catalog.Websites() {
				rows = append(rows, websiteRow(w))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func wqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:   "wq",
		Usage:  "website query",
		Action: wqCommandAction,
		Meta:   meta,
	}).Build()
}
