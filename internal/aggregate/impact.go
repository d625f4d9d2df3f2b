// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import (
	"context"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/statsctl/internal/catalog"
)

const (
	SourcePlugins = "plugins"
	SourceDiscord = "discord"
	SourceModels  = "models"
	SourceMods    = "mods"
	SourceDomains = "domains"
)

// Fallbacks are the totals reported for a source that cannot be fetched.
type Fallbacks struct {
	Plugins int64
	Models  int64
	Mods    int64
}

var DefaultFallbacks = Fallbacks{
	Plugins: 150000,
	Models:  250000,
	Mods:    23000,
}

// Slice is one category of the impact total.
type Slice struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Source   string `json:"source"`
	Tab      string `json:"tabName"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Snapshot is the cached impact summary.
type Snapshot struct {
	ImpactData  []Slice `json:"impactData"`
	TotalImpact int64   `json:"totalImpact"`
	// Cached is set on the returned value when it was read from the cache.
	Cached bool `json:"-"`
}

// Degraded reports whether any category used its fallback.
func (s Snapshot) Degraded() bool {
	for _, sl := range s.ImpactData {
		if sl.Degraded {
			return true
		}
	}
	return false
}

// Impact returns the cached snapshot or computes a new one. The plugin,
// model and mod totals are aggregated concurrently; a source whose list
// request fails contributes its fallback. A degraded snapshot is returned
// but not cached.
func (a *Aggregator) Impact(ctx context.Context) Snapshot {
	if !a.opts.Refresh {
		if snap, ok := a.hero.Get(ctx, ""); ok {
			snap.Cached = true
			return snap
		}
	}

	type total struct {
		count    int64
		degraded bool
	}
	var plugins, models, mods total

	run := func(ctx context.Context, out *total, fallback int64, compute func(context.Context) (int64, error), name string) {
		n, err := compute(ctx)
		if err != nil {
			log.WithError(err).Warnf("%s total unavailable, using fallback %d", name, fallback)
			*out = total{count: fallback, degraded: true}
			return
		}
		*out = total{count: n}
	}

	var g errgroup.Group
	g.Go(func() error {
		run(ctx, &plugins, a.opts.Fallbacks.Plugins, func(ctx context.Context) (int64, error) {
			res, err := a.Plugins.All(ctx)
			return Sum(res.Details, PluginPlayers), err
		}, SourcePlugins)
		return nil
	})
	g.Go(func() error {
		run(ctx, &models, a.opts.Fallbacks.Models, func(ctx context.Context) (int64, error) {
			res, err := a.Models.All(ctx)
			return Sum(res.Details, ModelDownloads), err
		}, SourceModels)
		return nil
	})
	g.Go(func() error {
		run(ctx, &mods, a.opts.Fallbacks.Mods, func(ctx context.Context) (int64, error) {
			res, err := a.Mods.All(ctx)
			return Sum(res.Details, ModReach), err
		}, SourceMods)
		return nil
	})
	_ = g.Wait()

	snap := Snapshot{
		ImpactData: []Slice{
			{Category: "Plugins", Count: plugins.count, Source: "Players on servers with my plugins", Tab: "minecraft", Degraded: plugins.degraded},
			{Category: "Discord", Count: catalog.DiscordReach(), Source: "Users in servers with my bots", Tab: "discord"},
			{Category: "AI Models", Count: models.count, Source: "Model downloads", Tab: "ai", Degraded: models.degraded},
			{Category: "Mods", Count: mods.count, Source: "Unique downloads of Steam Workshop mods", Tab: "mods", Degraded: mods.degraded},
		},
	}
	for _, sl := range snap.ImpactData {
		snap.TotalImpact += sl.Count
	}

	if snap.Degraded() {
		log.Debug("impact snapshot degraded, not cached")
		return snap
	}
	if err := a.hero.Set(ctx, "", snap); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", a.hero.Key(""))
	}
	return snap
}

// PreviousImpact returns the stored snapshot regardless of its age.
func (a *Aggregator) PreviousImpact(ctx context.Context) (Snapshot, time.Duration, bool) {
	return a.hero.Peek(ctx, "")
}
