// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the records that are not served by the statistics
// API: Discord bots, hand maintained website figures and papers.
package catalog

import "time"

// UsersPerServer is the assumed average member count of a Discord server.
const UsersPerServer = 500

type Bot struct {
	Name    string
	Servers int64
	Active  bool
	Install string
}

// EstimatedUsers is Servers * UsersPerServer.
func (b Bot) EstimatedUsers() int64 {
	return b.Servers * UsersPerServer
}

type Website struct {
	Name        string
	URL         string
	Description string
	// 30 day figures. DataServed is in MB.
	UniqueVisitors int64
	TotalRequests  int64
	DataServed     int64
}

type PaperType string

const (
	Preprint   PaperType = "Preprint"
	PeerReview PaperType = "Peer Review"
	Report     PaperType = "Report"
)

type Paper struct {
	Title     string
	Type      PaperType
	URL       string
	Authors   []string
	Abstract  string
	Published time.Time
}

var bots = []Bot{
	{
		Name:    "Auditlogger V2",
		Servers: 275,
		Active:  true,
		Install: "https://auditlogger.nodelegend.com/#install",
	},
	{
		Name:    "Auditlogger V1",
		Servers: 6250,
		Install: "https://discord.com/oauth2/authorize?client_id=1026735525501087815&permissions=140123688064&scope=bot+applications.commands",
	},
}

var websites = []Website{
	{
		Name:          "Neuroswarm.org",
		URL:           "https://neuroswarm.org",
		Description:   "A project index site for all community projects related to the Neurosama AI twitch streamer.",
		TotalRequests: 36990,
		DataServed:    321,
	},
	{
		Name:          "AssistantsLab.com",
		URL:           "https://assistantslab.com",
		Description:   "A non-profit AI organization, home to AI moderation and small language models.",
		TotalRequests: 12090,
		DataServed:    348,
	},
}

var papers = []Paper{
	{
		Title:     "Tiny-Toxic-Detector: A compact transformer-based model for toxic content detection",
		Type:      Preprint,
		URL:       "https://doi.org/10.48550/arXiv.2409.02114",
		Authors:   []string{"Michiel Kamphuis"},
		Abstract:  "A 2.1 million parameter transformer for toxic content detection reaching 90.97% accuracy on ToxiGen and 86.98% on Jigsaw, competitive with models over 50 times its size.",
		Published: date(2024, 8, 29),
	},
	{
		Title:     "EasyMath: A 0-shot Math Benchmark for SLMs",
		Type:      Preprint,
		URL:       "https://arxiv.org/abs/2505.14852",
		Authors:   []string{"Drishya Karki", "Michiel Kamphuis", "Angelecia Frey"},
		Abstract:  "A compact benchmark of thirteen categories of practical math reasoning, used to test 23 small language models from 14M to 4B parameters in a zero-shot setting.",
		Published: date(2025, 5, 20),
	},
	{
		Title:    "Humanized SmolLM2 Models: Technical Report",
		Type:     Report,
		URL:      "https://www.assistantslab.com/research/smollm2-report",
		Authors:  []string{"AssistantsLab Research Team"},
		Abstract: "Development, training, evaluation and limitations of the humanized SmolLM2 variants, tuned with DPO on the Human-Like-DPO-Dataset.",
	},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bots returns a copy of the bot records.
func Bots() []Bot {
	return append([]Bot(nil), bots...)
}

func Websites() []Website {
	return append([]Website(nil), websites...)
}

func Papers() []Paper {
	out := make([]Paper, len(papers))
	for i, p := range papers {
		p.Authors = append([]string(nil), p.Authors...)
		out[i] = p
	}
	return out
}

// DiscordReach is the summed estimated users across all bots.
func DiscordReach() int64 {
	var total int64
	for _, b := range bots {
		total += b.EstimatedUsers()
	}
	return total
}
