// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/config"
	"github.com/staranto/statsctl/internal/meta"
	"github.com/staranto/statsctl/internal/sorting"
)

// dqCommandAction lists the Cloudflare domains with their request totals,
// or with --id the daily traffic of one domain.
func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if id := cmd.String("id"); id != "" {
		runner := &QueryActionRunner[*TrafficRow]{
			CommandName:  "dq",
			SchemaType:   reflect.TypeOf(TrafficRow{}),
			DefaultAttrs: []string{"date", "requests"},
			Remote:       true,
			FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*TrafficRow, error) {
				s, err := r.Aggregator.Domains.Detail(ctx, id)
				if err != nil {
					return nil, err
				}
				rows := make([]*TrafficRow, 0, len(s.Traffic))
				for _, t := range sorting.Traffic(s.Traffic) {
					rows = append(rows, trafficRow(t))
				}
				return rows, nil
			},
		}
		return runner.Run(ctx, cmd)
	}

	runner := &QueryActionRunner[*DomainRow]{
		CommandName:  "dq",
		SchemaType:   reflect.TypeOf(DomainRow{}),
		DefaultAttrs: []string{".id", "name", "status", "requests"},
		Remote:       true,
		FetchFn: func(ctx context.Context, cmd *cli.Command, r *Remote) ([]*DomainRow, error) {
			res, err := r.Aggregator.Domains.All(ctx)
			if err != nil {
				return nil, err
			}
			stats := detailsByID(res)

			pin, _ := config.GetString("pin.domain", sorting.DefaultPinnedDomain)
			rows := make([]*DomainRow, 0, len(res.List))
			for _, d := range sorting.Domains(res.List, pin) {
				rows = append(rows, domainRow(d, stats[d.ID]))
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func dqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "website domain query",
		UsageText: "statsctl dq [--id zone-id] [options]",
		Flags:     []cli.Flag{newIDFlag()},
		Remote:    true,
		Action:    dqCommandAction,
		Meta:      meta,
	}).Build()
}
