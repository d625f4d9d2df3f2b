// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/statsctl/internal/cache"
	"github.com/staranto/statsctl/internal/catalog"
)

func impactRoutes() map[string]string {
	return map[string]string{
		"/mc/bstats":   `{"success":true,"message":"","data":{"plugins":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}}`,
		"/mc/bstats/1": `{"success":true,"message":"","data":{"plugin_id":1,"players":{"estimated_uniques":100}}}`,
		"/mc/bstats/2": `{"success":true,"message":"","data":{"plugin_id":2,"players":{}}}`,
		"/hf":          `{"success":true,"message":"","data":{"models":[{"model_id":"org/m"}]}}`,
		"/hf/org/m":    `{"success":true,"message":"","data":{"model_id":"org/m","downloads":20}}`,
		"/steam":       `{"workshop_ids":["x"]}`,
		"/steam/x":     `{"workshop_id":"x","unique_visitors":null,"views":3}`,
	}
}

func count(s Snapshot, category string) Slice {
	for _, sl := range s.ImpactData {
		if sl.Category == category {
			return sl
		}
	}
	return Slice{}
}

func TestImpact(t *testing.T) {
	srv := newFakeAPI(t, impactRoutes())
	store := cache.NewMemoryStore()

	snap := New(srv.client(), store).Impact(context.Background())

	assert.False(t, snap.Cached)
	assert.False(t, snap.Degraded())
	assert.Equal(t, int64(100), count(snap, "Plugins").Count)
	assert.Equal(t, int64(20), count(snap, "AI Models").Count)
	assert.Equal(t, int64(3), count(snap, "Mods").Count)
	assert.Equal(t, catalog.DiscordReach(), count(snap, "Discord").Count)
	assert.Equal(t, int64(100+20+3)+catalog.DiscordReach(), snap.TotalImpact)
	assert.Equal(t, "minecraft", count(snap, "Plugins").Tab)

	srv.hits.Store(0)
	again := New(srv.client(), store).Impact(context.Background())
	assert.Equal(t, int32(0), srv.hits.Load())
	assert.True(t, again.Cached)
	assert.Equal(t, snap.TotalImpact, again.TotalImpact)
	assert.Equal(t, snap.ImpactData, again.ImpactData)
}

func TestImpact_Fallbacks(t *testing.T) {
	routes := impactRoutes()
	routes["/hf"] = `{"success":false,"message":"hf down"}`
	routes["/steam"] = serverError
	srv := newFakeAPI(t, routes)
	store := cache.NewMemoryStore()

	snap := New(srv.client(), store).Impact(context.Background())

	assert.True(t, snap.Degraded())
	assert.False(t, count(snap, "Plugins").Degraded)
	assert.Equal(t, int64(100), count(snap, "Plugins").Count)
	assert.True(t, count(snap, "AI Models").Degraded)
	assert.Equal(t, DefaultFallbacks.Models, count(snap, "AI Models").Count)
	assert.Equal(t, DefaultFallbacks.Mods, count(snap, "Mods").Count)

	_, ok := cache.New[Snapshot](store, NSHero).Get(context.Background(), "")
	assert.False(t, ok)
}

func TestImpact_CustomFallbacks(t *testing.T) {
	srv := newFakeAPI(t, map[string]string{})

	snap := New(srv.client(), cache.NewMemoryStore(), WithFallbacks(Fallbacks{Plugins: 1, Models: 2, Mods: 3})).Impact(context.Background())
	assert.Equal(t, int64(6)+catalog.DiscordReach(), snap.TotalImpact)
}

func TestPreviousImpact(t *testing.T) {
	srv := newFakeAPI(t, impactRoutes())
	store := cache.NewMemoryStore()
	agg := New(srv.client(), store)

	_, _, ok := agg.PreviousImpact(context.Background())
	assert.False(t, ok)

	snap := agg.Impact(context.Background())
	prev, _, ok := agg.PreviousImpact(context.Background())
	require.True(t, ok)
	assert.Equal(t, snap.TotalImpact, prev.TotalImpact)
}

func TestImpact_ZeroVisitorsCountViews(t *testing.T) {
	routes := impactRoutes()
	routes["/steam/x"] = `{"workshop_id":"x","unique_visitors":0,"views":8}`
	srv := newFakeAPI(t, routes)

	snap := New(srv.client(), cache.NewMemoryStore()).Impact(context.Background())
	assert.Equal(t, int64(8), count(snap, "Mods").Count)
}
