// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/catalog"
)

// Rows are marshalled as JSON:API resources so every command addresses
// ".id" and "attributes.*" the same way.

type PluginRow struct {
	ID          string `jsonapi:"primary,plugins"`
	Name        string `jsonapi:"attr,name"`
	Owner       string `jsonapi:"attr,owner"`
	Software    int    `jsonapi:"attr,software"`
	Global      bool   `jsonapi:"attr,global"`
	Servers     int64  `jsonapi:"attr,servers"`
	Players     int64  `jsonapi:"attr,players"`
	Uniques     *int64 `jsonapi:"attr,uniques,omitempty"`
	LastUpdated string `jsonapi:"attr,last-updated,omitempty"`
}

func pluginRow(p api.Project, s *api.ProjectStats) *PluginRow {
	row := &PluginRow{
		ID:       p.Key(),
		Name:     p.Name,
		Owner:    p.Owner.Name,
		Software: p.Software.ID,
		Global:   p.IsGlobal,
	}
	if s != nil {
		row.Servers = s.Servers.Current
		row.Players = s.Players.Current
		row.Uniques = s.Players.EstimatedUniques
		row.LastUpdated = s.LastUpdated
	}
	return row
}

type PluginDetailRow struct {
	ID          string  `jsonapi:"primary,plugins"`
	Name        string  `jsonapi:"attr,name"`
	Servers     int64   `jsonapi:"attr,servers"`
	ServersMax  int64   `jsonapi:"attr,servers-max"`
	ServerHours int64   `jsonapi:"attr,server-hours"`
	Players     int64   `jsonapi:"attr,players"`
	PlayersMax  int64   `jsonapi:"attr,players-max"`
	PlayerHours int64   `jsonapi:"attr,player-hours"`
	Uniques     *int64  `jsonapi:"attr,uniques,omitempty"`
	LastUpdated string  `jsonapi:"attr,last-updated"`
	Resource    string  `jsonapi:"attr,resource,omitempty"`
	Downloads   int64   `jsonapi:"attr,downloads,omitempty"`
	Rating      float64 `jsonapi:"attr,rating,omitempty"`
	Ratings     int64   `jsonapi:"attr,ratings,omitempty"`
	Version     string  `jsonapi:"attr,version,omitempty"`
	URL         string  `jsonapi:"attr,url,omitempty"`
}

func pluginDetailRow(d aggregate.PluginDetail) *PluginDetailRow {
	s := d.Stats
	row := &PluginDetailRow{
		ID:          strconv.Itoa(s.PluginID),
		Name:        s.Name,
		Servers:     s.Servers.Current,
		ServersMax:  s.Servers.Max,
		ServerHours: s.Servers.TotalHours,
		Players:     s.Players.Current,
		PlayersMax:  s.Players.Max,
		PlayerHours: s.Players.TotalHours,
		Uniques:     s.Players.EstimatedUniques,
		LastUpdated: s.LastUpdated,
	}
	if sp := d.Spigot; sp != nil {
		row.Resource = sp.ResourceID
		row.Downloads = sp.Downloads
		row.Rating = sp.Rating.Average
		row.Ratings = sp.Rating.Count
		row.Version = sp.Version
		row.URL = sp.URL
	}
	return row
}

type ModelRow struct {
	ID        string `jsonapi:"primary,models"`
	Path      string `jsonapi:"attr,path"`
	Author    string `jsonapi:"attr,author,omitempty"`
	Downloads *int64 `jsonapi:"attr,downloads,omitempty"`
	URL       string `jsonapi:"attr,url"`
}

func modelRow(m api.ModelStats) *ModelRow {
	row := &ModelRow{
		ID:        m.ModelID,
		Path:      m.FullPath,
		Downloads: m.Downloads,
		URL:       m.URL,
	}
	if m.Author != nil {
		row.Author = m.Author.Name
	}
	return row
}

type ModRow struct {
	ID            string `jsonapi:"primary,mods"`
	Title         string `jsonapi:"attr,title"`
	Game          string `jsonapi:"attr,game,omitempty"`
	Reach         int64  `jsonapi:"attr,reach"`
	Visitors      *int64 `jsonapi:"attr,visitors,omitempty"`
	Views         *int64 `jsonapi:"attr,views,omitempty"`
	Subscriptions int64  `jsonapi:"attr,subscriptions"`
	Favorited     int64  `jsonapi:"attr,favorited"`
	FileSize      int64  `jsonapi:"attr,file-size"`
	Created       int64  `jsonapi:"attr,created"`
	Updated       int64  `jsonapi:"attr,updated"`
	Preview       string `jsonapi:"attr,preview,omitempty"`
}

func modRow(w api.WorkshopItem) *ModRow {
	row := &ModRow{
		ID:            w.WorkshopID,
		Title:         w.Title,
		Game:          w.Game,
		Visitors:      w.UniqueVisitors,
		Views:         w.Views,
		Subscriptions: w.Subscriptions,
		Favorited:     w.Favorited,
		FileSize:      w.FileSize,
		Created:       w.TimeCreated,
		Updated:       w.TimeUpdated,
		Preview:       w.PreviewURL,
	}
	if r := w.Reach(); r != nil {
		row.Reach = *r
	}
	return row
}

type DomainRow struct {
	ID       string `jsonapi:"primary,domains"`
	Name     string `jsonapi:"attr,name"`
	Status   string `jsonapi:"attr,status"`
	Requests int64  `jsonapi:"attr,requests"`
	Days     int    `jsonapi:"attr,days"`
}

func domainRow(d api.Domain, s *api.DomainStats) *DomainRow {
	row := &DomainRow{ID: d.ID, Name: d.Name, Status: d.Status}
	if s != nil {
		row.Requests = *aggregate.DomainRequests(*s)
		row.Days = len(s.Traffic)
	}
	return row
}

type TrafficRow struct {
	ID       string `jsonapi:"primary,traffic"`
	Date     string `jsonapi:"attr,date"`
	Requests int64  `jsonapi:"attr,requests"`
}

func trafficRow(t api.TrafficPoint) *TrafficRow {
	return &TrafficRow{ID: t.Date, Date: t.Date, Requests: t.Requests}
}

type BotRow struct {
	ID      string `jsonapi:"primary,bots"`
	Name    string `jsonapi:"attr,name"`
	Servers int64  `jsonapi:"attr,servers"`
	Users   int64  `jsonapi:"attr,users"`
	Active  bool   `jsonapi:"attr,active"`
	Install string `jsonapi:"attr,install"`
}

func botRow(b catalog.Bot) *BotRow {
	return &BotRow{
		ID:      slug(b.Name),
		Name:    b.Name,
		Servers: b.Servers,
		Users:   b.EstimatedUsers(),
		Active:  b.Active,
		Install: b.Install,
	}
}

type WebsiteRow struct {
	ID          string `jsonapi:"primary,websites"`
	Name        string `jsonapi:"attr,name"`
	URL         string `jsonapi:"attr,url"`
	Description string `jsonapi:"attr,description"`
	Visitors    int64  `jsonapi:"attr,visitors"`
	Requests    int64  `jsonapi:"attr,requests"`
	// Bytes, so the "b" transform applies.
	Served int64 `jsonapi:"attr,served"`
}

func websiteRow(w catalog.Website) *WebsiteRow {
	return &WebsiteRow{
		ID:          slug(w.Name),
		Name:        w.Name,
		URL:         w.URL,
		Description: w.Description,
		Visitors:    w.UniqueVisitors,
		Requests:    w.TotalRequests,
		Served:      w.DataServed * 1000 * 1000,
	}
}

type PaperRow struct {
	ID        string `jsonapi:"primary,papers"`
	Title     string `jsonapi:"attr,title"`
	Type      string `jsonapi:"attr,type"`
	Authors   string `jsonapi:"attr,authors"`
	Published string `jsonapi:"attr,published"`
	URL       string `jsonapi:"attr,url"`
	Abstract  string `jsonapi:"attr,abstract"`
}

func paperRow(p catalog.Paper) *PaperRow {
	return &PaperRow{
		ID:        slug(p.Title),
		Title:     p.Title,
		Type:      string(p.Type),
		Authors:   strings.Join(p.Authors, ", "),
		Published: p.Published.Format(time.DateOnly),
		URL:       p.URL,
		Abstract:  p.Abstract,
	}
}

type ImpactRow struct {
	ID       string `jsonapi:"primary,impact"`
	Category string `jsonapi:"attr,category"`
	Count    int64  `jsonapi:"attr,count"`
	Source   string `jsonapi:"attr,source"`
	Tab      string `jsonapi:"attr,tab"`
	Degraded bool   `jsonapi:"attr,degraded"`
}

func impactRow(s aggregate.Slice) *ImpactRow {
	return &ImpactRow{
		ID:       slug(s.Category),
		Category: s.Category,
		Count:    s.Count,
		Source:   s.Source,
		Tab:      s.Tab,
		Degraded: s.Degraded,
	}
}

// slug lower cases s and joins its words with "-".
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
