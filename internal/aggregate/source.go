// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/statsctl/internal/cache"
)

// DefaultLimit bounds the number of detail requests in flight per source.
const DefaultLimit = 8

// Enricher adjusts a freshly fetched detail before it is cached.
type Enricher[D any] func(id string, d *D)

// Source is one list/detail pair of the statistics API.
type Source[L, D any] struct {
	Name string

	ListCache   *cache.Cache[[]L]
	FetchList   func(ctx context.Context) ([]L, error)
	ID          func(L) string
	DetailCache *cache.Cache[D]
	FetchDetail func(ctx context.Context, id string) (D, error)
	Enrich      []Enricher[D]

	// Limit caps concurrent detail fetches; <= 0 means DefaultLimit.
	Limit int
	// Refresh skips cache reads. Results are still written.
	Refresh bool
	// OnDrop is called for every detail that failed and was left out.
	OnDrop func(source, id string, err error)
}

// Result is the outcome of All. Details and IDs are parallel and follow the
// order of List, minus the items that failed.
type Result[L, D any] struct {
	List    []L
	IDs     []string
	Details []D
	Dropped []string
	// FromCache is true when the list was a cache hit.
	FromCache bool
}

// List returns the cached list, or fetches and caches it.
func (s *Source[L, D]) List(ctx context.Context) ([]L, error) {
	list, cached, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if !cached {
		s.write(s.ListCache.Key(""), func() error { return s.ListCache.Set(ctx, "", list) })
	}
	return list, nil
}

func (s *Source[L, D]) list(ctx context.Context) ([]L, bool, error) {
	if !s.Refresh {
		if list, ok := s.ListCache.Get(ctx, ""); ok {
			return list, true, nil
		}
	}

	list, err := s.FetchList(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s list: %w", s.Name, err)
	}
	return list, false, nil
}

// Detail returns one detail record, from the cache when possible.
func (s *Source[L, D]) Detail(ctx context.Context, id string) (D, error) {
	if !s.Refresh {
		if d, ok := s.DetailCache.Get(ctx, id); ok {
			return d, nil
		}
	}

	d, err := s.fetch(ctx, id)
	if err != nil {
		var zero D
		return zero, fmt.Errorf("failed to fetch %s %s: %w", s.Name, id, err)
	}
	s.write(s.DetailCache.Key(id), func() error { return s.DetailCache.Set(ctx, id, d) })
	return d, nil
}

func (s *Source[L, D]) fetch(ctx context.Context, id string) (D, error) {
	d, err := s.FetchDetail(ctx, id)
	if err != nil {
		return d, err
	}
	for _, enrich := range s.Enrich {
		enrich(id, &d)
	}
	return d, nil
}

// All resolves the list and every detail of the source. Only a failed list
// request is an error; a failed detail is logged and dropped.
//
// On a list cache hit the details are read from the cache only, so a second
// run inside the TTL issues no requests. Details missing from the cache in
// that case are dropped like failures.
func (s *Source[L, D]) All(ctx context.Context) (Result[L, D], error) {
	list, cached, err := s.list(ctx)
	if err != nil {
		return Result[L, D]{}, err
	}

	ids := make([]string, len(list))
	for i, item := range list {
		ids[i] = s.ID(item)
	}

	type slot struct {
		detail  D
		ok      bool
		fetched bool
	}
	slots := fanOut(ctx, ids, s.Limit, func(ctx context.Context, id string) slot {
		if !s.Refresh {
			if d, ok := s.DetailCache.Get(ctx, id); ok {
				return slot{detail: d, ok: true}
			}
		}
		if cached {
			s.drop(id, fmt.Errorf("%s not in cache", s.DetailCache.Key(id)))
			return slot{}
		}
		d, err := s.fetch(ctx, id)
		if err != nil {
			s.drop(id, err)
			return slot{}
		}
		return slot{detail: d, ok: true, fetched: true}
	})

	if !cached {
		s.write(s.ListCache.Key(""), func() error { return s.ListCache.Set(ctx, "", list) })
	}

	res := Result[L, D]{List: list, FromCache: cached}
	for i, sl := range slots {
		if !sl.ok {
			res.Dropped = append(res.Dropped, ids[i])
			continue
		}
		if sl.fetched {
			id := ids[i]
			s.write(s.DetailCache.Key(id), func() error { return s.DetailCache.Set(ctx, id, sl.detail) })
		}
		res.IDs = append(res.IDs, ids[i])
		res.Details = append(res.Details, sl.detail)
	}

	log.Debugf("%s: %d of %d details", s.Name, len(res.Details), len(list))
	return res, nil
}

func (s *Source[L, D]) drop(id string, err error) {
	log.WithError(err).WithField("id", id).Warnf("%s detail dropped", s.Name)
	if s.OnDrop != nil {
		s.OnDrop(s.Name, id, err)
	}
}

func (s *Source[L, D]) write(key string, set func() error) {
	if err := set(); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", key)
	}
}

// fanOut runs fn once per id with at most limit calls in flight and returns
// the results in id order. fn owns its failures; nothing here cancels a
// sibling.
func fanOut[T any](ctx context.Context, ids []string, limit int, fn func(context.Context, string) T) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]T, len(ids))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			out[i] = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
