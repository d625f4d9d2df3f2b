// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"maps"
	"slices"

	"github.com/staranto/statsctl/internal/aggregate"
)

type Tab string

const (
	Minecraft Tab = "minecraft"
	Discord   Tab = "discord"
	AI        Tab = "ai"
	Websites  Tab = "websites"
	Papers    Tab = "papers"
	Mods      Tab = "mods"
)

// Tabs in display order.
var Tabs = []Tab{Minecraft, Discord, AI, Websites, Papers, Mods}

// DefaultTab is the tab shown first; its data is static.
const DefaultTab = Papers

// ParseTab returns the Tab named s.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Field is one labelled value of an item's detail pane.
type Field struct {
	Label string
	Value string
}

// Item is one row of a tab's list.
type Item struct {
	ID       string
	Title    string
	Subtitle string
	Count    int64
	Fields   []Field
}

// SourceState is the data of one tab.
type SourceState struct {
	Loading  bool
	Err      error
	Items    []Item
	Selected string
}

// SelectedItem returns the selected item, if any.
func (s *SourceState) SelectedItem() (Item, bool) {
	for _, it := range s.Items {
		if it.ID == s.Selected {
			return it, true
		}
	}
	return Item{}, false
}

type State struct {
	Tab     Tab
	Sources map[Tab]*SourceState
	Impact  *aggregate.Snapshot
}

// New returns the initial state: every tab empty, DefaultTab active.
func New() State {
	s := State{Tab: DefaultTab, Sources: map[Tab]*SourceState{}}
	for _, t := range Tabs {
		s.Sources[t] = &SourceState{}
	}
	return s
}

// Current is the state of the active tab.
func (s State) Current() *SourceState {
	return s.source(s.Tab)
}

func (s State) source(t Tab) *SourceState {
	if src, ok := s.Sources[t]; ok {
		return src
	}
	return &SourceState{}
}

// Apply returns the state after e.
func (s State) Apply(e Event) State {
	return e.apply(s)
}

// with returns a copy of s where tab t is replaced by fn applied to a copy of
// its state.
func (s State) with(t Tab, fn func(*SourceState)) State {
	next := s
	next.Sources = maps.Clone(s.Sources)
	if next.Sources == nil {
		next.Sources = map[Tab]*SourceState{}
	}
	src := *s.source(t)
	fn(&src)
	next.Sources[t] = &src
	return next
}

// Event is a discrete change to State.
type Event interface {
	apply(State) State
}

type FetchStarted struct {
	Tab Tab
}

func (e FetchStarted) apply(s State) State {
	return s.with(e.Tab, func(src *SourceState) {
		src.Loading = true
	})
}

// FetchSucceeded replaces the items of a tab. The selection is kept when the
// item is still present, otherwise the first item is selected.
type FetchSucceeded struct {
	Tab   Tab
	Items []Item
}

func (e FetchSucceeded) apply(s State) State {
	return s.with(e.Tab, func(src *SourceState) {
		src.Loading = false
		src.Err = nil
		src.Items = slices.Clone(e.Items)
		if _, ok := src.SelectedItem(); !ok {
			src.Selected = ""
			if len(src.Items) > 0 {
				src.Selected = src.Items[0].ID
			}
		}
	})
}

// FetchFailed records the error of a tab and keeps its previous items.
type FetchFailed struct {
	Tab Tab
	Err error
}

func (e FetchFailed) apply(s State) State {
	return s.with(e.Tab, func(src *SourceState) {
		src.Loading = false
		src.Err = e.Err
	})
}

// TabSelected switches the active tab. Unknown tabs are ignored.
type TabSelected struct {
	Tab Tab
}

func (e TabSelected) apply(s State) State {
	if _, ok := ParseTab(string(e.Tab)); !ok {
		return s
	}
	s.Tab = e.Tab
	return s
}

// ItemSelected selects an item by id. Ids not in the tab are ignored.
type ItemSelected struct {
	Tab Tab
	ID  string
}

func (e ItemSelected) apply(s State) State {
	src := s.source(e.Tab)
	if !slices.ContainsFunc(src.Items, func(it Item) bool { return it.ID == e.ID }) {
		return s
	}
	return s.with(e.Tab, func(src *SourceState) {
		src.Selected = e.ID
	})
}

type ImpactLoaded struct {
	Snapshot aggregate.Snapshot
}

func (e ImpactLoaded) apply(s State) State {
	snap := e.Snapshot
	s.Impact = &snap
	return s
}
