// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output turns a JSON document into the rows a command prints:
// select, filter, sort, transform and render as text, json, yaml or raw.
package output
