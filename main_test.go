// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/statsctl/internal/config"
)

func TestMangleArguments(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
mq:
  defaults:
    - --titles
  wide:
    - --attrs subscriptions,favorited
    - --sort -reach
`), 0o600))
	t.Setenv("STATSCTL_CFG", cfgFile)
	_, err := config.Load("mq")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults",
			args: []string{"statsctl", "mq", "-o", "json"},
			want: []string{"statsctl", "mq", "--titles", "-o", "json"},
		},
		{
			name: "named set",
			args: []string{"statsctl", "mq", "-o", "json", "@wide"},
			want: []string{"statsctl", "mq", "-o", "json", "--attrs", "subscriptions,favorited", "--sort", "-reach"},
		},
		{
			name: "unknown set",
			args: []string{"statsctl", "mq", "@nothing"},
			want: []string{"statsctl", "mq"},
		},
		{
			name: "help",
			args: []string{"statsctl", "mq", "-o", "json", "-h"},
			want: []string{"statsctl", "mq", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}

func TestHasArg(t *testing.T) {
	args := []string{"statsctl", "pq", "-v"}
	assert.True(t, hasArg(args, "--version", "-v"))
	assert.False(t, hasArg(args, "--help", "-h"))
	assert.False(t, hasArg(nil, "-v"))
}
