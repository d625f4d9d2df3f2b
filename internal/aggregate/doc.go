// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package aggregate fetches one data source at a time through the cache:
// a list request, a parallel detail request per list item, and a reduction
// of the surviving details. A list cache hit answers without any network
// traffic.
package aggregate
