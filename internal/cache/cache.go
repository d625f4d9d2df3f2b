// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
)

// TTL is how long an entry is served after it was written.
const TTL = 3 * time.Hour

// Entry is the persisted form of a cached value.
type Entry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// rawEntry is used on the read path so that a missing data or timestamp key
// can be told apart from a zero value.
type rawEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp *int64          `json:"timestamp"`
}

// Options tune a Cache. The zero value is not useful; see defaults().
type Options struct {
	TTL   time.Duration
	Clock func() time.Time
	// OnLookup, if set, is called after every Get with the namespace and
	// whether the lookup was a hit.
	OnLookup func(namespace string, hit bool)
}

type Option func(*Options)

func WithTTL(ttl time.Duration) Option {
	return func(o *Options) { o.TTL = ttl }
}

// WithClock replaces time.Now. Tests use it to move across the TTL boundary.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) { o.Clock = clock }
}

func WithLookupHook(fn func(namespace string, hit bool)) Option {
	return func(o *Options) { o.OnLookup = fn }
}

func defaults(opts []Option) Options {
	o := Options{TTL: TTL, Clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Cache is a typed view of one key namespace over a Store. Keys are the
// namespace concatenated with an entity id, e.g. "projectStatsCache_42".
type Cache[T any] struct {
	store     Store
	namespace string
	opts      Options
}

// New returns a Cache for namespace backed by store.
func New[T any](store Store, namespace string, opts ...Option) *Cache[T] {
	return &Cache[T]{
		store:     store,
		namespace: namespace,
		opts:      defaults(opts),
	}
}

// Namespace returns the key prefix of the cache.
func (c *Cache[T]) Namespace() string {
	return c.namespace
}

// Key builds the store key for id.
func (c *Cache[T]) Key(id string) string {
	return c.namespace + id
}

// Get returns the value stored for id if it is present, well formed and
// younger than the TTL. Every other outcome is a miss; Get never fails.
// Expired entries are left in the store.
func (c *Cache[T]) Get(ctx context.Context, id string) (T, bool) {
	v, age, ok := c.Peek(ctx, id)
	hit := ok && age < c.opts.TTL
	if c.opts.OnLookup != nil {
		c.opts.OnLookup(c.namespace, hit)
	}
	if !hit {
		if ok {
			log.Debugf("cache stale: %s (age %s)", c.Key(id), age)
		}
		var zero T
		return zero, false
	}
	log.Debugf("cache hit: %s", c.Key(id))
	return v, true
}

// Peek returns the stored value for id and its age regardless of the TTL. The
// bool is false when the entry is missing or malformed.
func (c *Cache[T]) Peek(ctx context.Context, id string) (T, time.Duration, bool) {
	var zero T
	key := c.Key(id)

	raw, ok, err := c.store.Load(ctx, key)
	if err != nil {
		log.WithError(err).Debugf("cache read failed: %s", key)
		return zero, 0, false
	}
	if !ok {
		return zero, 0, false
	}

	var entry rawEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Debugf("cache entry malformed: %s", key)
		return zero, 0, false
	}
	if entry.Data == nil || entry.Timestamp == nil {
		log.Debugf("cache entry incomplete: %s", key)
		return zero, 0, false
	}

	var v T
	if err := json.Unmarshal(entry.Data, &v); err != nil {
		log.Debugf("cache entry has unexpected shape: %s", key)
		return zero, 0, false
	}

	now := c.opts.Clock().UnixMilli()
	age := time.Duration(now-*entry.Timestamp) * time.Millisecond
	return v, age, true
}

// Set stores v for id stamped with the current time, replacing whatever was
// there. Serialization and store errors are returned.
func (c *Cache[T]) Set(ctx context.Context, id string, v T) error {
	key := c.Key(id)
	b, err := json.Marshal(Entry[T]{Data: v, Timestamp: c.opts.Clock().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := c.store.Save(ctx, key, b); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	log.Debugf("cache write: %s", key)
	return nil
}
