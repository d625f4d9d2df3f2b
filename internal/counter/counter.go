// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package counter animates a number from 0 up to a target with a cubic ease
// out.
package counter

import (
	"math"
	"time"
)

// Duration is the length of one animation.
const Duration = 2500 * time.Millisecond

// Value is the number shown elapsed into an animation of length d towards
// target: floor(target * (1 - (1 - t/d)^3)) with t clamped to [0, d].
func Value(target int64, elapsed, d time.Duration) int64 {
	if target <= 0 {
		return 0
	}
	if d <= 0 || elapsed >= d {
		return target
	}
	if elapsed < 0 {
		elapsed = 0
	}

	p := float64(elapsed) / float64(d)
	eased := 1 - math.Pow(1-p, 3)
	return int64(math.Floor(float64(target) * eased))
}

// Frames samples an animation of length d at the given frame interval and
// returns the distinct values shown, from 0 to target.
func Frames(target int64, d, interval time.Duration) []int64 {
	if interval <= 0 {
		interval = d
	}

	out := []int64{0}
	for t := interval; ; t += interval {
		if t > d {
			t = d
		}
		if v := Value(target, t, d); v > out[len(out)-1] {
			out = append(out, v)
		}
		if t == d {
			break
		}
	}
	return out
}
