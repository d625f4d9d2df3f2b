// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package driller resolves dotted attribute paths, as used by --attrs and
// --filter, against a JSON document.
package driller
