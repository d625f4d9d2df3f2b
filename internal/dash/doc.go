// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package dash is the interactive tabbed dashboard. Every key press and
// finished fetch becomes a state.Event; the view only reads the state.
package dash
