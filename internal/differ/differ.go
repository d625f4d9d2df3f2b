// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ renders the difference between two JSON documents.
package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff compares two JSON objects and returns an ASCII rendering of the
// changes. The bool is false when the documents are equal, in which case the
// string is empty.
func Diff(before, after []byte, color bool) (string, bool, error) {
	d, err := gojsondiff.New().Compare(before, after)
	if err != nil {
		return "", false, fmt.Errorf("failed to compare documents: %w", err)
	}
	if !d.Modified() {
		return "", false, nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(before, &left); err != nil {
		return "", false, fmt.Errorf("failed to decode left document: %w", err)
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	out, err := f.Format(d)
	if err != nil {
		return "", false, fmt.Errorf("failed to format diff: %w", err)
	}
	return out, true, nil
}

// Values marshals both values and diffs them.
func Values(before, after any, color bool) (string, bool, error) {
	b, err := json.Marshal(before)
	if err != nil {
		return "", false, fmt.Errorf("failed to encode left value: %w", err)
	}
	a, err := json.Marshal(after)
	if err != nil {
		return "", false, fmt.Errorf("failed to encode right value: %w", err)
	}
	return Diff(b, a, color)
}
