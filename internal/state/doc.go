// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package state is the dashboard state. It changes only through Apply, which
// returns a new State for an Event and leaves the old one untouched.
package state
