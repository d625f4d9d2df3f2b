// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// Tag is a parsed jsonapi struct tag.
type Tag struct {
	Kind     string
	Name     string
	Encoding string
}

// NewTag parses s, a jsonapi tag value, under holder h. Only "attr" tags
// are recognised; anything else yields the zero Tag.
func NewTag(h string, s string) Tag {
	tag := Tag{}

	parts := strings.Split(s, ",")
	if parts[0] != "attr" {
		return tag
	}
	tag.Kind = parts[0]

	if len(parts) > 1 {
		if h != "" {
			parts[1] = fmt.Sprintf("%s.%s", h, parts[1])
		}
		tag.Name = parts[1]
	}

	if len(parts) > 2 {
		tag.Encoding = parts[2]
	}

	return tag
}

// Print returns the attr path of the tag.
func (t Tag) Print() string {
	return t.Name
}

const maxSchemaDepth = 1

// DumpSchema writes the sorted attr paths of typ to w.
func DumpSchema(w io.Writer, prefix string, typ reflect.Type) {
	tags := DumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	slices.SortFunc(tags, func(a, b Tag) int {
		return strings.Compare(a.Name, b.Name)
	})

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")
	for _, tag := range tags {
		fmt.Fprintln(w, tag.Print())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w,
		`Row level attributes that are directly available to the --attrs flag.
Use --output=raw to see the full document returned by the stats API.`)
}

// DumpSchemaWalker collects the attr tags of typ, descending into nested
// structs up to maxSchemaDepth.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	tags := make([]Tag, 0)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("jsonapi")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Kind != "attr" {
			continue
		}

		tags = append(tags, tag)

		if depth >= maxSchemaDepth {
			continue
		}

		switch {
		case field.Type.Kind() == reflect.Struct:
			tags = append(tags, DumpSchemaWalker(tag.Name, field.Type, depth+1)...)
		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			tags = append(tags, DumpSchemaWalker(tag.Name, field.Type.Elem(), depth+1)...)
		default:
			log.Debugf("presumed primitive field type: %s for %v", field.Type.Kind(), tag)
		}
	}

	return tags
}

// DumpExamples writes a two column table of example commands to w.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}

	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers("Command", "Description").
		BorderHeader(false).
		Rows(rows...)

	fmt.Fprintln(w, t)
}
