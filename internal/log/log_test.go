// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestHandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)

	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	err := h.HandleLog(&log.Entry{
		Level:     log.WarnLevel,
		Message:   "detail fetch failed",
		Timestamp: ts,
		Fields:    log.Fields{"id": "b"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "2025-03-04 05:06:07 W detail fetch failed id=b\n", buf.String())
}

func TestPairs(t *testing.T) {
	fields := pairs([]interface{}{"url", "http://x", "attempt", 2, "dangling"})
	assert.Equal(t, log.Fields{"url": "http://x", "attempt": 2}, fields)
}
