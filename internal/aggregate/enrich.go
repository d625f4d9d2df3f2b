// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import "github.com/staranto/statsctl/internal/api"

// gameOverrides labels workshop items whose game the API doesn't report.
var gameOverrides = map[string]string{
	"1865844684": "Hearts Of Iron 4",
}

// GameLabel sets the game of a known workshop item.
func GameLabel(id string, w *api.WorkshopItem) {
	if game, ok := gameOverrides[id]; ok {
		w.Game = game
	}
}
