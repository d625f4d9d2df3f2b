// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import "github.com/staranto/statsctl/internal/api"

// Sum adds field across items. A nil field counts as 0.
func Sum[D any](items []D, field func(D) *int64) int64 {
	var total int64
	for _, item := range items {
		if v := field(item); v != nil {
			total += *v
		}
	}
	return total
}

// Field selectors used by the impact total.

func PluginPlayers(s api.ProjectStats) *int64 { return s.Players.EstimatedUniques }

func ModelDownloads(m api.ModelStats) *int64 { return m.Downloads }

// ModReach counts unique visitors, or views when visitors are missing or 0.
// Display order uses WorkshopItem.Reach, where a reported 0 stands.
func ModReach(w api.WorkshopItem) *int64 {
	if v := w.UniqueVisitors; v != nil && *v != 0 {
		return v
	}
	return w.Views
}

// DomainRequests totals the request series of a domain.
func DomainRequests(d api.DomainStats) *int64 {
	var total int64
	for _, p := range d.Traffic {
		total += p.Requests
	}
	return &total
}
