// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// STATSCTL_LOG env variable. Log lines go to stderr so they never mix with
// json/yaml output on stdout.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("STATSCTL_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(NewHandler(os.Stderr))
	log.SetLevelFromString(level)
}

// CustomHandler formats log messages as single lines.
type CustomHandler struct {
	w io.Writer
}

// NewHandler returns a CustomHandler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{w: w}
}

// HandleLog implements the log.Handler interface. Fields are appended as
// sorted key=value pairs.
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp.Format("2006-01-02 15:04:05"), level, e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteString("\n")

	_, err := io.WriteString(h.w, b.String())
	return err
}

// Retryable adapts apex/log to the LeveledLogger interface expected by
// go-retryablehttp.
type Retryable struct{}

func (Retryable) Error(msg string, kv ...interface{}) { log.WithFields(pairs(kv)).Error(msg) }
func (Retryable) Warn(msg string, kv ...interface{})  { log.WithFields(pairs(kv)).Warn(msg) }
func (Retryable) Info(msg string, kv ...interface{})  { log.WithFields(pairs(kv)).Debug(msg) }
func (Retryable) Debug(msg string, kv ...interface{}) { log.WithFields(pairs(kv)).Debug(msg) }

func pairs(kv []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
