// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/statsctl/internal/attrs"
)

const modelsDoc = `{"data":[
  {"id":"m/a","type":"models","attributes":{"name":"alpha","downloads":900}},
  {"id":"m/b","type":"models","attributes":{"name":"beta","downloads":12000}},
  {"id":"m/c","type":"models","attributes":{"name":"gamma"}}
]}`

func attrList(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	require.NoError(t, al.SetGlobalTransformSpec())
	return al
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, ".id,name,!downloads")

	err := SliceDiceSpit([]byte(modelsDoc), al, Options{Output: "json", Sort: "-downloads"}, "data", &buf)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"m/b","name":"beta"},{"id":"m/a","name":"alpha"},{"id":"m/c","name":"gamma"}]`, buf.String())
}

func TestSliceDiceSpit_SortBeforeTransform(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name,downloads::h")

	err := SliceDiceSpit([]byte(modelsDoc), al, Options{Output: "json", Sort: "downloads", Filter: "downloads>0"}, "data", &buf)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"name":"alpha","downloads":"900"},{"name":"beta","downloads":"12,000"}]`, buf.String())
}

func TestSliceDiceSpit_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name")

	err := SliceDiceSpit([]byte(modelsDoc), al, Options{Output: "json", Filter: "name=nothing"}, "data", &buf)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name")

	err := SliceDiceSpit([]byte(modelsDoc), al, Options{Output: "yaml", Sort: "name"}, "data", &buf)
	require.NoError(t, err)
	assert.Equal(t, "- name: alpha\n- name: beta\n- name: gamma\n", buf.String())
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	var buf bytes.Buffer

	err := SliceDiceSpit([]byte(modelsDoc), nil, Options{Output: "raw"}, "data", &buf)
	require.NoError(t, err)
	assert.Equal(t, modelsDoc, buf.String())
}

func TestSliceDiceSpit_Text(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name,downloads")

	err := SliceDiceSpit([]byte(modelsDoc), al, Options{Titles: true, Sort: "name"}, "data", &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "downloads")
	assert.Contains(t, lines[1], "alpha")
	assert.Contains(t, lines[3], "gamma")
	assert.Contains(t, lines[3], "-")
}

func TestTableWriter_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableWriter(nil, attrList(t, "name"), Options{}, &buf))
	assert.Empty(t, buf.String())
}

func TestSortDataset_MissingValuesLast(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "c"},
		{"name": "a", "count": 5.0},
		{"name": "b", "count": 10.0},
	}

	SortDataset(rows, "count")
	assert.Equal(t, "a", rows[0]["name"])
	assert.Equal(t, "b", rows[1]["name"])
	assert.Equal(t, "c", rows[2]["name"])
}

func TestSortDataset_CaseInsensitiveByDefault(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "beta"},
		{"name": "Alpha"},
		{"name": "alpha2"},
	}

	SortDataset(rows, "name")
	assert.Equal(t, "Alpha", rows[0]["name"])

	SortDataset(rows, "!name")
	assert.Equal(t, "Alpha", rows[0]["name"])
	assert.Equal(t, "alpha2", rows[1]["name"])

	SortDataset(rows, "-!name")
	assert.Equal(t, "beta", rows[0]["name"])
}

func TestParseSortSpec(t *testing.T) {
	keys := parseSortSpec(" -count , !-name,,-")
	assert.Equal(t, []sortKey{
		{name: "count", descending: true},
		{name: "name", descending: true, caseSensitive: true},
	}, keys)
}

func TestDumpSchema(t *testing.T) {
	type players struct {
		Unique int `jsonapi:"attr,unique"`
	}
	type row struct {
		ID      string   `jsonapi:"primary,plugins"`
		Name    string   `jsonapi:"attr,name"`
		Players *players `jsonapi:"attr,players"`
	}

	var buf bytes.Buffer
	DumpSchema(&buf, "", reflect.TypeOf(row{}))

	out := buf.String()
	assert.Contains(t, out, "Schema for row --")
	assert.Less(t, strings.Index(out, "name\n"), strings.Index(out, "players\n"))
	assert.Contains(t, out, "players.unique\n")
	assert.NotContains(t, out, "plugins")
}

func TestDumpExamples(t *testing.T) {
	var buf bytes.Buffer
	DumpExamples(&buf, nil)
	assert.Empty(t, buf.String())

	DumpExamples(&buf, [][2]string{{"statsctl pq", "List plugins"}})
	assert.Contains(t, buf.String(), "statsctl pq")
	assert.Contains(t, buf.String(), "List plugins")
}
