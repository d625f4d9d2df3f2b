// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the expiring statistics cache. Values are stored as
// {data, timestamp} JSON documents in a Store and read back as absent once
// they are older than the TTL.
package cache
