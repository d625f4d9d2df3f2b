// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/config"
	"github.com/staranto/statsctl/internal/dash"
	"github.com/staranto/statsctl/internal/meta"
	"github.com/staranto/statsctl/internal/sorting"
	"github.com/staranto/statsctl/internal/state"
)

func dashCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Subcommand())

	if !isTerminal() {
		return errors.New("dash needs a terminal")
	}

	r, err := NewRemote(ctx, cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	pins := dash.Pins{}
	pins.Plugin, _ = config.GetString("pin.plugin", sorting.DefaultPinnedPlugin)
	pins.Domain, _ = config.GetString("pin.domain", sorting.DefaultPinnedDomain)

	tab, _ := state.ParseTab(cmd.String("tab"))
	model := dash.NewModel(ctx, tab, dash.Loaders(r.Aggregator, pins), r.Aggregator.Impact)

	final, err := dash.Run(ctx, writer(cmd), model)
	if snap := final.Impact; snap != nil {
		r.Metrics.Impact(snap.TotalImpact, degradedSources(*snap))
	}
	return err
}

func dashCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "dash",
		Usage: "interactive dashboard",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "tab",
				Usage: "tab to open on",
				Value: string(state.DefaultTab),
				Sources: cli.NewValueSourceChain(
					yaml.YAML("dash.tab", altsrc.StringSourcer(meta.Config.Source)),
				),
				Validator: func(value string) error {
					return FlagValidators(value, TabValidator)
				},
			},
		}, NewRemoteFlags("dash")...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: dashCommandAction,
	}
}

