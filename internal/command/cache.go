// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/cache"
	"github.com/staranto/statsctl/internal/meta"
)

var errNoFileCache = errors.New("the cache is disabled or has no directory")

func fileStore() (*cache.FileStore, error) {
	if !cache.Enabled() {
		return nil, errNoFileCache
	}
	dir, ok := cache.Dir()
	if !ok {
		return nil, errNoFileCache
	}
	return cache.NewFileStore(dir), nil
}

func cachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	store, err := fileStore()
	if err != nil {
		return err
	}

	hours := cmd.Int("hours")
	removed, err := store.Purge(time.Duration(hours) * time.Hour)
	if err != nil {
		return err
	}
	log.Debugf("purged %d files from %s", removed, store.Dir())
	fmt.Fprintf(writer(cmd), "removed %d cache files older than %dh\n", removed, hours)
	return nil
}

func cacheInfoAction(ctx context.Context, cmd *cli.Command) error {
	store, err := fileStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	w := writer(cmd)
	fmt.Fprintf(w, "dir      %s\n", stats.Dir)
	fmt.Fprintf(w, "entries  %d\n", stats.Entries)
	fmt.Fprintf(w, "size     %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	if !stats.Oldest.IsZero() {
		fmt.Fprintf(w, "oldest   %s\n", humanize.Time(stats.Oldest))
	}
	fmt.Fprintf(w, "ttl      %s\n", cache.TTL)
	return nil
}

func cacheCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "local cache housekeeping",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:  "purge",
				Usage: "remove cache files older than --hours",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours of the files to remove",
						Value: 24,
						Sources: cli.NewValueSourceChain(
							yaml.YAML("cache.clean", altsrc.StringSourcer(meta.Config.Source)),
						),
						Validator: func(value int) error {
							return FlagValidators(value, PositiveValidator)
						},
					},
				},
				Action: cachePurgeAction,
			},
			{
				Name:   "info",
				Usage:  "show the cache directory and its size",
				Action: cacheInfoAction,
			},
		},
	}
}
