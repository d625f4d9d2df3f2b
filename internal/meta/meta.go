// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/staranto/statsctl/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Namespace is the subcommand name used for namespaced config keys.
	Namespace string
}

// Subcommand returns the args following the binary name.
func (m Meta) Subcommand() []string {
	if len(m.Args) < 2 {
		return nil
	}
	return m.Args[1:]
}
