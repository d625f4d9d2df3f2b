// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/apex/log"

	"github.com/staranto/statsctl/internal/cache"
	"github.com/staranto/statsctl/internal/command"
	"github.com/staranto/statsctl/internal/config"
	mylog "github.com/staranto/statsctl/internal/log"
)

// Exit codes. Flag and argument errors surface from Run.
const (
	exitOK = iota
	exitInit
	exitRun
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	if hasArg(args, "--version", "-v") {
		fmt.Println(command.Version)
		return exitOK
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cache.EnsureBaseDir(); err != nil && !ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInit
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRun
	}

	return exitOK
}

func hasArg(args []string, names ...string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return slices.Contains(names, a)
	})
}

// mangleArguments expands an @set preset. A preset is a list of argument
// strings kept in the config file under <command>.<set>; "@defaults" is used
// when no @set is given. The preset is inserted where the @set appeared, or
// right after the command.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	if hasArg(args, "--help", "-h") {
		return append(preamble, "--help")
	}

	idx := 2
	set := "defaults"
	rest := append([]string{}, args[2:]...)
	for i, a := range rest {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			rest = append(rest[:i], rest[i+1:]...)
			break
		}
	}
	args = append(preamble, rest...)

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		args = append(args[:idx], append(parts, args[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}
