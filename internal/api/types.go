// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import "strconv"

type Owner struct {
	Name string `json:"name"`
}

type Software struct {
	ID int `json:"id"`
}

// Project is a bStats plugin list record.
type Project struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Owner    Owner    `json:"owner"`
	Software Software `json:"software"`
	IsGlobal bool     `json:"isGlobal"`
	ChartIDs []int    `json:"chartIds"`
}

// Key is the cache/detail id of the project.
func (p Project) Key() string {
	return strconv.Itoa(p.ID)
}

type ServerCounts struct {
	Current    int64 `json:"current"`
	Max        int64 `json:"max"`
	Min        int64 `json:"min"`
	TotalHours int64 `json:"total_hours"`
}

type PlayerCounts struct {
	Current          int64  `json:"current"`
	Max              int64  `json:"max"`
	Min              int64  `json:"min"`
	TotalHours       int64  `json:"total_hours"`
	EstimatedUniques *int64 `json:"estimated_uniques,omitempty"`
}

// ProjectStats is the bStats detail record of a plugin.
type ProjectStats struct {
	PluginID    int          `json:"plugin_id"`
	Name        string       `json:"name"`
	Servers     ServerCounts `json:"servers"`
	Players     PlayerCounts `json:"players"`
	LastUpdated string       `json:"last_updated"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// SpigotStats is the SpigotMC resource record of a plugin.
type SpigotStats struct {
	PluginID    string `json:"plugin_id"`
	ResourceID  string `json:"resource_id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Downloads   int64  `json:"downloads"`
	Rating      Rating `json:"rating"`
	LastUpdated string `json:"last_updated"`
	Version     string `json:"version"`
}

type Author struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ModelStats is a Hugging Face model. The list and detail endpoints share the
// shape; the list copy may lack downloads.
type ModelStats struct {
	ModelID   string  `json:"model_id"`
	FullPath  string  `json:"full_path"`
	URL       string  `json:"url"`
	Author    *Author `json:"author,omitempty"`
	Downloads *int64  `json:"downloads,omitempty"`
}

// WorkshopItem is a Steam Workshop item detail record.
type WorkshopItem struct {
	WorkshopID     string `json:"workshop_id"`
	Title          string `json:"title"`
	UniqueVisitors *int64 `json:"unique_visitors"`
	Views          *int64 `json:"views,omitempty"`
	Subscriptions  int64  `json:"subscriptions"`
	Favorited      int64  `json:"favorited"`
	FileSize       int64  `json:"file_size"`
	PreviewURL     string `json:"preview_url"`
	TimeCreated    int64  `json:"time_created"`
	TimeUpdated    int64  `json:"time_updated"`
	Game           string `json:"game,omitempty"`
}

// Reach is the visitor count used for ordering and totals: unique visitors
// when reported, views otherwise.
func (w WorkshopItem) Reach() *int64 {
	if w.UniqueVisitors != nil {
		return w.UniqueVisitors
	}
	return w.Views
}

// Domain is a Cloudflare zone.
type Domain struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type TrafficPoint struct {
	Date     string `json:"date"`
	Requests int64  `json:"requests"`
}

// DomainStats is the daily request series of a zone.
type DomainStats struct {
	DomainID string         `json:"domain_id"`
	Traffic  []TrafficPoint `json:"traffic"`
}
