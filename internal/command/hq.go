// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/counter"
	"github.com/staranto/statsctl/internal/differ"
	"github.com/staranto/statsctl/internal/meta"
)

// isTerminal reports whether stdout is a terminal. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// hqCommandAction prints the impact summary. With --animate the total
// counts up in the terminal, and with --diff the summary is compared with
// the previously cached one.
func hqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Subcommand())

	if ShortCircuitTLDR(ctx, cmd, "hq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(ImpactRow{})) {
		return nil
	}

	attrs := BuildAttrs(cmd, "category", "count::h", "source")

	r, err := NewRemote(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	prev, age, hadPrev := r.Aggregator.PreviousImpact(ctx)

	var snap aggregate.Snapshot
	load := func() int64 {
		snap = r.Aggregator.Impact(ctx)
		return snap.TotalImpact
	}

	w := writer(cmd)
	animate := cmd.Bool("animate") && cmd.String("output") == "text" && !cmd.Bool("diff")
	if animate {
		if _, err := counter.Run(w, "people reached", load); err != nil {
			return err
		}
	} else {
		load()
	}

	r.Metrics.Impact(snap.TotalImpact, degradedSources(snap))
	if snap.Degraded() {
		fmt.Fprintln(os.Stderr, "warning: some totals are estimates, their source could not be reached")
	}

	if cmd.Bool("diff") {
		if !hadPrev {
			fmt.Fprintln(w, "no previous impact summary in the cache")
			return nil
		}
		out, changed, err := differ.Values(prev, snap, cmd.Bool("color"))
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintf(w, "unchanged since %s\n", humanize.Time(time.Now().Add(-age)))
			return nil
		}
		fmt.Fprintf(w, "changes since %s\n%s", humanize.Time(time.Now().Add(-age)), out)
		return nil
	}

	rows := make([]*ImpactRow, 0, len(snap.ImpactData)+1)
	for _, sl := range snap.ImpactData {
		rows = append(rows, impactRow(sl))
	}
	if !animate {
		rows = append(rows, &ImpactRow{ID: "total", Category: "Total", Count: snap.TotalImpact})
	}
	return EmitJSONAPISlice(rows, attrs, cmd)
}

// degradedSources keys the degraded flag of every slice by its slug.
func degradedSources(s aggregate.Snapshot) map[string]bool {
	out := make(map[string]bool, len(s.ImpactData))
	for _, sl := range s.ImpactData {
		out[slug(sl.Category)] = sl.Degraded
	}
	return out
}

func hqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "hq",
		Usage:     "impact summary query",
		UsageText: "statsctl hq [--animate] [--diff] [options]",
		Flags: []cli.Flag{
			&cli.BoolWithInverseFlag{
				Name:  "animate",
				Usage: "count the total up in the terminal",
				Value: isTerminal(),
			},
			&cli.BoolFlag{
				Name:        "diff",
				Aliases:     []string{"d"},
				Usage:       "refetch and compare with the previously cached summary",
				HideDefault: true,
			},
		},
		Remote: true,
		Action: hqCommandAction,
		Meta:   meta,
	}).Build()
}
