// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/cache"
)

// Cache namespaces. Detail namespaces end in "_" and are followed by the
// entity id.
const (
	NSPluginList  = "projectsListCache"
	NSPluginStats = "projectStatsCache_"
	NSSpigotStats = "spigotStatsCache_"
	NSModelList   = "aiModelsListCache"
	NSModelStats  = "aiModelStatsCache_"
	NSModList     = "steamModsListCache"
	NSModItem     = "steamModCache_"
	NSDomainList  = "cloudflareDomainsCache"
	NSDomainStats = "cloudflareStatsCache_"
	NSHero        = "heroStatsCache"
)

// API is the subset of api.Client the aggregator calls.
type API interface {
	Plugins(ctx context.Context) ([]api.Project, error)
	PluginStats(ctx context.Context, id int) (api.ProjectStats, error)
	SpigotStats(ctx context.Context, id int) (api.SpigotStats, error)
	Models(ctx context.Context) ([]api.ModelStats, error)
	ModelStats(ctx context.Context, id string) (api.ModelStats, error)
	WorkshopIDs(ctx context.Context) ([]string, error)
	WorkshopItem(ctx context.Context, id string) (api.WorkshopItem, error)
	Domains(ctx context.Context) ([]api.Domain, error)
	DomainStats(ctx context.Context, id string) (api.DomainStats, error)
}

// Options configure an Aggregator.
type Options struct {
	Refresh   bool
	Limit     int
	Fallbacks Fallbacks
	// Cache options are passed to every namespace.
	Cache  []cache.Option
	OnDrop func(source, id string, err error)
}

type Option func(*Options)

func WithRefresh(refresh bool) Option {
	return func(o *Options) { o.Refresh = refresh }
}

func WithLimit(n int) Option {
	return func(o *Options) { o.Limit = n }
}

func WithFallbacks(f Fallbacks) Option {
	return func(o *Options) { o.Fallbacks = f }
}

func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *Options) { o.Cache = append(o.Cache, opts...) }
}

func WithDropHook(fn func(source, id string, err error)) Option {
	return func(o *Options) { o.OnDrop = fn }
}

// Aggregator owns the sources of the statistics API over one store.
type Aggregator struct {
	Plugins *Source[api.Project, api.ProjectStats]
	Models  *Source[api.ModelStats, api.ModelStats]
	Mods    *Source[string, api.WorkshopItem]
	Domains *Source[api.Domain, api.DomainStats]

	spigot *cache.Cache[api.SpigotStats]
	hero   *cache.Cache[Snapshot]
	client API
	opts   Options
}

// New wires every source to client and store.
func New(client API, store cache.Store, opts ...Option) *Aggregator {
	o := Options{Fallbacks: DefaultFallbacks}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Aggregator{
		client: client,
		opts:   o,
		spigot: cache.New[api.SpigotStats](store, NSSpigotStats, o.Cache...),
		hero:   cache.New[Snapshot](store, NSHero, o.Cache...),
	}

	a.Plugins = &Source[api.Project, api.ProjectStats]{
		Name:        SourcePlugins,
		ListCache:   cache.New[[]api.Project](store, NSPluginList, o.Cache...),
		FetchList:   client.Plugins,
		ID:          api.Project.Key,
		DetailCache: cache.New[api.ProjectStats](store, NSPluginStats, o.Cache...),
		FetchDetail: func(ctx context.Context, id string) (api.ProjectStats, error) {
			n, err := pluginID(id)
			if err != nil {
				return api.ProjectStats{}, err
			}
			return client.PluginStats(ctx, n)
		},
	}

	a.Models = &Source[api.ModelStats, api.ModelStats]{
		Name:        SourceModels,
		ListCache:   cache.New[[]api.ModelStats](store, NSModelList, o.Cache...),
		FetchList:   client.Models,
		ID:          func(m api.ModelStats) string { return m.ModelID },
		DetailCache: cache.New[api.ModelStats](store, NSModelStats, o.Cache...),
		FetchDetail: client.ModelStats,
	}

	a.Mods = &Source[string, api.WorkshopItem]{
		Name:        SourceMods,
		ListCache:   cache.New[[]string](store, NSModList, o.Cache...),
		FetchList:   client.WorkshopIDs,
		ID:          func(id string) string { return id },
		DetailCache: cache.New[api.WorkshopItem](store, NSModItem, o.Cache...),
		FetchDetail: client.WorkshopItem,
		Enrich:      []Enricher[api.WorkshopItem]{GameLabel},
	}

	a.Domains = &Source[api.Domain, api.DomainStats]{
		Name:        SourceDomains,
		ListCache:   cache.New[[]api.Domain](store, NSDomainList, o.Cache...),
		FetchList:   client.Domains,
		ID:          func(d api.Domain) string { return d.ID },
		DetailCache: cache.New[api.DomainStats](store, NSDomainStats, o.Cache...),
		FetchDetail: client.DomainStats,
	}

	for _, s := range []interface{ configure(Options) }{a.Plugins, a.Models, a.Mods, a.Domains} {
		s.configure(o)
	}

	return a
}

func (s *Source[L, D]) configure(o Options) {
	s.Limit = o.Limit
	s.Refresh = o.Refresh
	s.OnDrop = o.OnDrop
}

func pluginID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("invalid plugin id %q", id)
	}
	return n, nil
}

// PluginDetail is the bStats record of a plugin plus its SpigotMC record,
// when SpigotMC knows the plugin.
type PluginDetail struct {
	Stats  api.ProjectStats
	Spigot *api.SpigotStats
}

// PluginDetail fetches both records of one plugin in parallel. Only the
// bStats record is required.
func (a *Aggregator) PluginDetail(ctx context.Context, id int) (PluginDetail, error) {
	key := strconv.Itoa(id)

	var (
		detail    PluginDetail
		statsErr  error
		spigot    api.SpigotStats
		spigotErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		detail.Stats, statsErr = a.Plugins.Detail(ctx, key)
		return nil
	})
	g.Go(func() error {
		spigot, spigotErr = a.spigotStats(ctx, id)
		return nil
	})
	_ = g.Wait()

	if statsErr != nil {
		return PluginDetail{}, statsErr
	}
	if spigotErr != nil {
		log.WithError(spigotErr).Debugf("no spigot stats for plugin %d", id)
	} else {
		detail.Spigot = &spigot
	}
	return detail, nil
}

func (a *Aggregator) spigotStats(ctx context.Context, id int) (api.SpigotStats, error) {
	key := strconv.Itoa(id)
	if !a.opts.Refresh {
		if s, ok := a.spigot.Get(ctx, key); ok {
			return s, nil
		}
	}

	s, err := a.client.SpigotStats(ctx, id)
	if err != nil {
		return api.SpigotStats{}, err
	}
	if err := a.spigot.Set(ctx, key, s); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", a.spigot.Key(key))
	}
	return s, nil
}
