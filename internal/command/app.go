// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/config"
	"github.com/staranto/statsctl/internal/meta"
)

// Version is set at build time with -ldflags "-X ...command.Version=...".
var Version = "dev"

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the statsctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		Namespace: ns,
	}

	app := &cli.Command{
		Name:  "statsctl",
		Usage: "Portfolio statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "statsctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		aqCommandBuilder(meta),
		bqCommandBuilder(meta),
		cacheCommandBuilder(meta),
		dashCommandBuilder(meta),
		dqCommandBuilder(meta),
		hqCommandBuilder(meta),
		mqCommandBuilder(meta),
		pqCommandBuilder(meta),
		rqCommandBuilder(meta),
		wqCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
