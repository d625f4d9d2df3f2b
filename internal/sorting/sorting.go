// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package sorting orders records for display. Every function returns a new
// slice and leaves its input untouched.
package sorting

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/staranto/statsctl/internal/api"
)

const (
	DefaultPinnedPlugin = "BigBrother"
	DefaultPinnedDomain = "michielo.com"
)

// Pinned puts the first item named pin at the front and the rest in
// collated alphabetical order. Other items carrying the pinned name are
// dropped.
func Pinned[T any](items []T, name func(T) string, pin string) []T {
	out := make([]T, 0, len(items))
	var head *T
	for i := range items {
		if name(items[i]) == pin {
			if head == nil {
				head = &items[i]
			}
			continue
		}
		out = append(out, items[i])
	}

	// A Collator carries a buffer and can't be shared between goroutines.
	c := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b T) int {
		return c.CompareString(name(a), name(b))
	})

	if head != nil {
		out = append([]T{*head}, out...)
	}
	return out
}

// Descending orders items by count, largest first. A nil count is 0.
func Descending[T any](items []T, count func(T) *int64) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		av, bv := deref(count(a)), deref(count(b))
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return 0
	})
	return out
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func Projects(ps []api.Project, pin string) []api.Project {
	return Pinned(ps, func(p api.Project) string { return p.Name }, pin)
}

func Models(ms []api.ModelStats) []api.ModelStats {
	return Descending(ms, func(m api.ModelStats) *int64 { return m.Downloads })
}

// Mods orders by unique visitors, falling back to views.
func Mods(ws []api.WorkshopItem) []api.WorkshopItem {
	return Descending(ws, api.WorkshopItem.Reach)
}

func Domains(ds []api.Domain, pin string) []api.Domain {
	return Pinned(ds, func(d api.Domain) string { return d.Name }, pin)
}

// Traffic orders a request series by date, oldest first. Dates are ISO
// formatted so a string compare is enough.
func Traffic(ts []api.TrafficPoint) []api.TrafficPoint {
	out := slices.Clone(ts)
	slices.SortStableFunc(out, func(a, b api.TrafficPoint) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return out
}
