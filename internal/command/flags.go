// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// Flags are constructed per command since a flag keeps its parsed value.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "id",
		Usage: "show the detail of a single item",
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}
}

func newListFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "list",
		Aliases:     []string{"l"},
		Usage:       "show the list records only, without a detail request per item",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags every query command shares.
// params[0] is the command name and namespaces the config file defaults.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewRemoteFlags returns the flags of commands that talk to the statistics
// API.
func NewRemoteFlags(ns string) []cli.Flag {
	return []cli.Flag{
		NewAPIFlag(ns, cfg.Source),
		&cli.BoolFlag{
			Name:    "refresh",
			Aliases: []string{"r"},
			Usage:   "ignore cached values and refetch",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("STATSCTL_REFRESH"),
			),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write prometheus metrics of the run to this file",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("STATSCTL_METRICS_FILE"),
				yaml.YAML("metrics.file", altsrc.StringSourcer(cfg.Source)),
			),
		},
	}
}

// NewAPIFlag constructs the --api flag, namespaced to a command and config
// file when both are given.
func NewAPIFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "api",
		Usage: "base URL of the statistics API",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("STATSCTL_API"),
		),
		Value: api.DefaultBaseURL,
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
