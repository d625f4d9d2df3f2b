// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/aws"
	"github.com/staranto/statsctl/internal/cache"
	"github.com/staranto/statsctl/internal/config"
	"github.com/staranto/statsctl/internal/metrics"
)

// Remote is what a command needs to query the statistics API: an
// aggregator over the configured store and the metrics of the run.
type Remote struct {
	Aggregator *aggregate.Aggregator
	Metrics    *metrics.Metrics
	Store      cache.Store

	metricsFile string
}

// NewStore returns the cache store selected by cache.backend: "file" (the
// default), "s3" or "memory". A disabled cache is a memory store, so each
// run starts empty.
func NewStore(ctx context.Context) (cache.Store, error) {
	backend, _ := config.GetString("cache.backend", "file")

	if !cache.Enabled() {
		log.Debug("cache disabled, using memory store")
		return cache.NewMemoryStore(), nil
	}

	switch backend {
	case "file":
		dir, ok := cache.Dir()
		if !ok {
			log.Warn("no cache directory, using memory store")
			return cache.NewMemoryStore(), nil
		}
		return cache.NewFileStore(dir), nil
	case "s3":
		bucket, _ := config.GetString("cache.bucket")
		if bucket == "" {
			return nil, fmt.Errorf("cache.backend s3 requires cache.bucket")
		}
		prefix, _ := config.GetString("cache.prefix", "statsctl")
		profile, _ := config.GetString("cache.profile")
		region, _ := config.GetString("cache.region")
		endpoint, _ := config.GetString("cache.endpoint")

		client, err := aws.NewS3Client(ctx,
			aws.WithProfile(profile),
			aws.WithRegion(region),
			aws.WithEndpoint(endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		log.Debugf("s3 cache: s3://%s/%s", bucket, prefix)
		return cache.NewS3Store(client, bucket, prefix), nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache.backend %q", backend)
	}
}

// NewRemote builds the API client, store and aggregator from the command's
// flags and the config file.
func NewRemote(ctx context.Context, cmd *cli.Command) (*Remote, error) {
	store, err := NewStore(ctx)
	if err != nil {
		return nil, err
	}
	return newRemote(cmd, store), nil
}

func newRemote(cmd *cli.Command, store cache.Store) *Remote {
	m := metrics.New()

	retries, _ := config.GetInt("api.retries", 2)
	timeout, _ := config.GetDuration("api.timeout", 15*time.Second)
	client := api.NewClient(cmd.String("api"),
		api.WithRetries(retries),
		api.WithTimeout(timeout),
		api.WithObserver(m.Request),
	)
	log.Debugf("api: %s", client.BaseURL())

	// --diff compares the cached summary with a fresh one, so it always
	// refetches.
	refresh := cmd.Bool("refresh") || cmd.Bool("diff")

	limit, _ := config.GetInt("fanout.limit", aggregate.DefaultLimit)
	agg := aggregate.New(client, store,
		aggregate.WithRefresh(refresh),
		aggregate.WithLimit(limit),
		aggregate.WithFallbacks(fallbacks()),
		aggregate.WithCacheOptions(cache.WithLookupHook(m.CacheLookup)),
		aggregate.WithDropHook(func(source, _ string, _ error) {
			m.FanoutFailure(source)
		}),
	)

	return &Remote{
		Aggregator:  agg,
		Metrics:     m,
		Store:       store,
		metricsFile: cmd.String("metrics-file"),
	}
}

// fallbacks reads fallback.plugins, fallback.models and fallback.mods.
func fallbacks() aggregate.Fallbacks {
	f := aggregate.DefaultFallbacks
	if n, err := config.GetInt("fallback.plugins"); err == nil {
		f.Plugins = int64(n)
	}
	if n, err := config.GetInt("fallback.models"); err == nil {
		f.Models = int64(n)
	}
	if n, err := config.GetInt("fallback.mods"); err == nil {
		f.Mods = int64(n)
	}
	return f
}

// Close writes the metrics file, if one was asked for. A failure is logged
// and does not fail the command.
func (r *Remote) Close() {
	if r.metricsFile == "" {
		return
	}
	if err := r.Metrics.WriteTextfile(r.metricsFile); err != nil {
		log.WithError(err).Warnf("failed to write metrics to %s", r.metricsFile)
	}
}
