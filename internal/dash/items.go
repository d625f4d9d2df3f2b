// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dash

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/catalog"
	"github.com/staranto/statsctl/internal/sorting"
	"github.com/staranto/statsctl/internal/state"
)

// Loader resolves the items of one tab.
type Loader func(ctx context.Context) ([]state.Item, error)

// Pins are the names shown first on the plugin and domain tabs.
type Pins struct {
	Plugin string
	Domain string
}

// Loaders returns a loader for every tab. The remote tabs go through agg.
func Loaders(agg *aggregate.Aggregator, pins Pins) map[state.Tab]Loader {
	return map[state.Tab]Loader{
		state.Minecraft: func(ctx context.Context) ([]state.Item, error) {
			res, err := agg.Plugins.All(ctx)
			if err != nil {
				return nil, err
			}
			return PluginItems(sorting.Projects(res.List, pins.Plugin), index(res)), nil
		},
		state.AI: func(ctx context.Context) ([]state.Item, error) {
			res, err := agg.Models.All(ctx)
			if err != nil {
				return nil, err
			}
			return ModelItems(sorting.Models(res.Details)), nil
		},
		state.Mods: func(ctx context.Context) ([]state.Item, error) {
			res, err := agg.Mods.All(ctx)
			if err != nil {
				return nil, err
			}
			return ModItems(sorting.Mods(res.Details)), nil
		},
		state.Websites: func(ctx context.Context) ([]state.Item, error) {
			res, err := agg.Domains.All(ctx)
			if err != nil {
				return nil, err
			}
			return DomainItems(sorting.Domains(res.List, pins.Domain), index(res)), nil
		},
		state.Discord: func(context.Context) ([]state.Item, error) {
			return BotItems(catalog.Bots()), nil
		},
		state.Papers: func(context.Context) ([]state.Item, error) {
			return PaperItems(catalog.Papers()), nil
		},
	}
}

func index[L, D any](res aggregate.Result[L, D]) map[string]D {
	m := make(map[string]D, len(res.IDs))
	for i, id := range res.IDs {
		m[id] = res.Details[i]
	}
	return m
}

func comma(n int64) string { return humanize.Comma(n) }

func optional(n *int64) string {
	if n == nil {
		return "-"
	}
	return comma(*n)
}

func PluginItems(ps []api.Project, stats map[string]api.ProjectStats) []state.Item {
	items := make([]state.Item, 0, len(ps))
	for _, p := range ps {
		it := state.Item{ID: p.Key(), Title: p.Name, Subtitle: p.Owner.Name}
		if s, ok := stats[p.Key()]; ok {
			it.Count = s.Players.Current
			it.Fields = []state.Field{
				{Label: "Servers", Value: comma(s.Servers.Current)},
				{Label: "Players", Value: comma(s.Players.Current)},
				{Label: "Peak players", Value: comma(s.Players.Max)},
				{Label: "Estimated uniques", Value: optional(s.Players.EstimatedUniques)},
				{Label: "Updated", Value: s.LastUpdated},
			}
		}
		items = append(items, it)
	}
	return items
}

func ModelItems(ms []api.ModelStats) []state.Item {
	items := make([]state.Item, 0, len(ms))
	for _, m := range ms {
		it := state.Item{ID: m.ModelID, Title: m.ModelID, Subtitle: m.FullPath}
		if m.Downloads != nil {
			it.Count = *m.Downloads
		}
		it.Fields = []state.Field{
			{Label: "Downloads", Value: optional(m.Downloads)},
			{Label: "URL", Value: m.URL},
		}
		if m.Author != nil {
			it.Fields = append(it.Fields, state.Field{Label: "Author", Value: m.Author.Name})
		}
		items = append(items, it)
	}
	return items
}

func ModItems(ws []api.WorkshopItem) []state.Item {
	items := make([]state.Item, 0, len(ws))
	for _, w := range ws {
		it := state.Item{ID: w.WorkshopID, Title: w.Title, Subtitle: w.Game}
		if r := w.Reach(); r != nil {
			it.Count = *r
		}
		it.Fields = []state.Field{
			{Label: "Unique visitors", Value: optional(w.UniqueVisitors)},
			{Label: "Views", Value: optional(w.Views)},
			{Label: "Subscriptions", Value: comma(w.Subscriptions)},
			{Label: "Favorited", Value: comma(w.Favorited)},
			{Label: "Size", Value: humanize.Bytes(uint64(max(w.FileSize, 0)))},
			{Label: "Updated", Value: humanize.Time(time.Unix(w.TimeUpdated, 0))},
		}
		items = append(items, it)
	}
	return items
}

func DomainItems(ds []api.Domain, stats map[string]api.DomainStats) []state.Item {
	items := make([]state.Item, 0, len(ds))
	for _, d := range ds {
		it := state.Item{ID: d.ID, Title: d.Name, Subtitle: d.Status}
		if s, ok := stats[d.ID]; ok {
			it.Count = *aggregate.DomainRequests(s)
			for _, t := range sorting.Traffic(s.Traffic) {
				it.Fields = append(it.Fields, state.Field{Label: t.Date, Value: comma(t.Requests)})
			}
		}
		items = append(items, it)
	}
	return items
}

func BotItems(bs []catalog.Bot) []state.Item {
	items := make([]state.Item, 0, len(bs))
	for _, b := range bs {
		status := "inactive"
		if b.Active {
			status = "active"
		}
		items = append(items, state.Item{
			ID:       b.Name,
			Title:    b.Name,
			Subtitle: status,
			Count:    b.EstimatedUsers(),
			Fields: []state.Field{
				{Label: "Servers", Value: comma(b.Servers)},
				{Label: "Estimated users", Value: comma(b.EstimatedUsers())},
				{Label: "Install", Value: b.Install},
			},
		})
	}
	return items
}

func PaperItems(ps []catalog.Paper) []state.Item {
	items := make([]state.Item, 0, len(ps))
	for i, p := range ps {
		items = append(items, state.Item{
			ID:       strconv.Itoa(i),
			Title:    p.Title,
			Subtitle: string(p.Type),
			Fields: []state.Field{
				{Label: "Authors", Value: strings.Join(p.Authors, ", ")},
				{Label: "Published", Value: p.Published.Format(time.DateOnly)},
				{Label: "URL", Value: p.URL},
			},
		})
	}
	return items
}
