// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mods() []map[string]interface{} {
	return []map[string]interface{}{
		{"title": "Road to 56", "reach": 9000.0, "game": "Hearts Of Iron 4"},
		{"title": "better tooltips", "reach": 120.0, "game": "Stellaris"},
		{"title": "Alt history", "reach": 9000.0, "game": "Hearts Of Iron 4"},
	}
}

func titles(rows []map[string]interface{}) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["title"].(string))
	}
	return out
}

func TestSortDataset(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"", []string{"Road to 56", "better tooltips", "Alt history"}},
		{"title", []string{"Alt history", "better tooltips", "Road to 56"}},
		{"!title", []string{"Alt history", "Road to 56", "better tooltips"}},
		{"-title", []string{"Road to 56", "better tooltips", "Alt history"}},
		{"reach", []string{"better tooltips", "Road to 56", "Alt history"}},
		{"-reach,title", []string{"Alt history", "Road to 56", "better tooltips"}},
		{"game,-reach,-title", []string{"Road to 56", "Alt history", "better tooltips"}},
		{"nope", []string{"Road to 56", "better tooltips", "Alt history"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			rows := mods()
			SortDataset(rows, tt.spec)
			assert.Equal(t, tt.want, titles(rows))
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{"string", "BigBrother", nil, "BigBrother"},
		{"int", 42, nil, "42"},
		{"int64", int64(3120483), nil, "3120483"},
		{"float rounds", 1234.6, nil, "1235"},
		{"true", true, nil, "true"},
		{"false is empty", false, nil, ""},
		{"zero count", 0.0, []string{"-"}, "-"},
		{"nil", nil, []string{"-"}, "-"},
		{"empty string", "", []string{"n/a"}, "n/a"},
		{"list", []string{"mc", "audit"}, nil, `["mc","audit"]`},
		{"object", map[string]int{"current": 10}, nil, `{"current":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestNewTag(t *testing.T) {
	tests := []struct {
		name   string
		holder string
		value  string
		want   Tag
	}{
		{"attr", "", "attr,downloads", Tag{Kind: "attr", Name: "downloads"}},
		{"under holder", "players", "attr,current", Tag{Kind: "attr", Name: "players.current"}},
		{"omitempty", "", "attr,uniques,omitempty", Tag{Kind: "attr", Name: "uniques", Encoding: "omitempty"}},
		{"primary is not an attr", "", "primary,plugins", Tag{}},
		{"empty", "", "", Tag{}},
		{"kind only", "", "attr", Tag{Kind: "attr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTag(tt.holder, tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Name, got.Print())
		})
	}
}

func TestDumpSchemaWalker_Depth(t *testing.T) {
	type counts struct {
		Current int64 `jsonapi:"attr,current"`
	}
	type stats struct {
		Servers counts `jsonapi:"attr,servers"`
	}
	type row struct {
		ID    string `jsonapi:"primary,plugins"`
		Name  string `jsonapi:"attr,name"`
		Stats *stats `jsonapi:"attr,stats"`
		Notes string
	}

	var names []string
	for _, tag := range DumpSchemaWalker("", reflect.TypeOf(row{}), 0) {
		names = append(names, tag.Name)
	}
	// stats.servers.current is below the walk depth.
	assert.Equal(t, []string{"name", "stats", "stats.servers"}, names)
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("no-such-colors")
	assert.Equal(t, "#f6be00", header)
	assert.Equal(t, "#ffffff", even)
	assert.Equal(t, "#00c8f0", odd)
}

func BenchmarkSortDataset(b *testing.B) {
	for i := 0; i < b.N; i++ {
		SortDataset(mods(), "-reach,title")
	}
}
