// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var indexRegex = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

// Driller walks path through doc. Segments are separated by "." and may carry
// an explicit index, e.g. "traffic[0].date". A single element array is
// unwrapped, so "items.id" reaches into [{"id": ..}]. A missing segment
// returns an empty Result.
func Driller(doc string, path string) gjson.Result {
	cur := gjson.Parse(doc)

	for _, seg := range strings.Split(path, ".") {
		name, idx := splitIndex(seg)

		cur = unwrap(cur)
		cur = cur.Get(gjson.Escape(name))
		if !cur.Exists() {
			return gjson.Result{}
		}

		if idx >= 0 {
			if !cur.IsArray() {
				return gjson.Result{}
			}
			elems := cur.Array()
			if idx >= len(elems) {
				return gjson.Result{}
			}
			cur = elems[idx]
		}
	}

	return unwrap(cur)
}

func splitIndex(seg string) (string, int) {
	m := indexRegex.FindStringSubmatch(seg)
	if m == nil {
		return seg, -1
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return seg, -1
	}
	return m[1], idx
}

func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if elems := r.Array(); len(elems) == 1 {
			return elems[0]
		}
	}
	return r
}
