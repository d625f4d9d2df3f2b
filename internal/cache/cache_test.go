// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for crossing the TTL boundary.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestCache[T any](t *testing.T, clock *fakeClock) (*Cache[T], *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New[T](store, "projectStatsCache_", WithClock(clock.Now)), store
}

func TestCache_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantHit bool
	}{
		{name: "just written", elapsed: 0, wantHit: true},
		{name: "one ms before ttl", elapsed: TTL - time.Millisecond, wantHit: true},
		{name: "exactly ttl", elapsed: TTL, wantHit: false},
		{name: "past ttl", elapsed: TTL + time.Hour, wantHit: false},
	}

	values := []any{
		42.0,
		"text",
		map[string]any{"players": map[string]any{"estimated_uniques": 5.0}},
		[]any{"a", "b", "c"},
	}

	for _, tt := range tests {
		for _, v := range values {
			t.Run(tt.name, func(t *testing.T) {
				clock := &fakeClock{now: start}
				c, _ := newTestCache[any](t, clock)

				require.NoError(t, c.Set(ctx, "42", v))
				clock.now = start.Add(tt.elapsed)

				got, ok := c.Get(ctx, "42")
				assert.Equal(t, tt.wantHit, ok)
				if tt.wantHit {
					assert.Equal(t, v, got)
				} else {
					assert.Nil(t, got)
				}
			})
		}
	}
}

func TestCache_StaleEntryLeftInPlace(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(1_000)}
	c, store := newTestCache[int](t, clock)

	require.NoError(t, c.Set(ctx, "7", 99))
	clock.now = clock.now.Add(TTL * 2)

	_, ok := c.Get(ctx, "7")
	assert.False(t, ok)

	_, present, err := store.Load(ctx, "projectStatsCache_7")
	assert.NoError(t, err)
	assert.True(t, present, "expired entries are not deleted on read")

	v, age, ok := c.Peek(ctx, "7")
	assert.True(t, ok)
	assert.Equal(t, 99, v)
	assert.Equal(t, TTL*2, age)
}

func TestCache_CorruptionTolerance(t *testing.T) {
	ctx := context.Background()

	corrupt := []string{
		"",
		"not json",
		"{",
		"null",
		"[]",
		`"just a string"`,
		`{"data": 1}`,
		`{"timestamp": 1700000000000}`,
		`{"data": 1, "timestamp": "yesterday"}`,
		`{"data": "not-an-int", "timestamp": 1700000000000}`,
	}

	for _, raw := range corrupt {
		t.Run(raw, func(t *testing.T) {
			clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
			c, store := newTestCache[int](t, clock)
			require.NoError(t, store.Save(ctx, c.Key("1"), []byte(raw)))

			assert.NotPanics(t, func() {
				v, ok := c.Get(ctx, "1")
				assert.False(t, ok)
				assert.Zero(t, v)
			})
		})
	}
}

func TestCache_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(5_000)}
	c, _ := newTestCache[[]string](t, clock)

	require.NoError(t, c.Set(ctx, "", []string{"a"}))
	clock.now = clock.now.Add(TTL + time.Second)
	require.NoError(t, c.Set(ctx, "", []string{"a", "b"}))

	got, ok := c.Get(ctx, "")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCache_WireShape(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_123)}
	c, store := newTestCache[map[string]int](t, clock)

	require.NoError(t, c.Set(ctx, "9", map[string]int{"downloads": 3}))

	raw, ok, err := store.Load(ctx, "projectStatsCache_9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"data":{"downloads":3},"timestamp":1700000000123}`, string(raw))
}

func TestCache_LookupHook(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(0)}

	var hits, misses int
	c := New[int](NewMemoryStore(), "ns_", WithClock(clock.Now), WithLookupHook(func(ns string, hit bool) {
		assert.Equal(t, "ns_", ns)
		if hit {
			hits++
		} else {
			misses++
		}
	}))

	_, _ = c.Get(ctx, "x")
	require.NoError(t, c.Set(ctx, "x", 1))
	_, _ = c.Get(ctx, "x")

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCache_CustomTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.UnixMilli(0)}
	c := New[int](NewMemoryStore(), "short_", WithClock(clock.Now), WithTTL(time.Minute))

	require.NoError(t, c.Set(ctx, "k", 1))
	clock.now = clock.now.Add(time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
