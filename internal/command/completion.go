// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/meta"
)

const bashCompletionScript = `# bash completion for statsctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_statsctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "aq bq cache dash dq hq mq pq rq wq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr --schema"
    local remote="--api --refresh -r --metrics-file"

    case "$cmd" in
        aq|pq)
            local opts="$common $remote --id --list -l"
            ;;
        dq|mq)
            local opts="$common $remote --id"
            ;;
        hq)
            local opts="$common $remote --animate --no-animate --diff -d"
            ;;
        bq|rq|wq)
            local opts="$common"
            ;;
        dash)
            local opts="$remote --tab"
            if [[ "$prev" == "--tab" ]]; then
                COMPREPLY=( $(compgen -W "minecraft discord ai websites papers mods" -- "$cur") )
                return 0
            fi
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "purge info" -- "$cur") )
                return 0
            fi
            local opts="--hours"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _statsctl statsctl
`

const zshCompletionScript = `#compdef statsctl

_statsctl() {
  local -a cmds
  cmds=(
    'aq:ai model query'
    'bq:discord bot query'
    'cache:local cache housekeeping'
    'dash:interactive dashboard'
    'dq:website domain query'
    'hq:impact summary query'
    'mq:steam workshop mod query'
    'pq:minecraft plugin query'
    'rq:research paper query'
    'wq:website query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  local -a remote
  remote=(
  '--api[statistics API base URL]:url'
  '(-r --refresh)'{-r,--refresh}'[ignore cached values]'
  '--metrics-file[write prometheus metrics]:file:_files'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'statsctl commands' cmds
    return
  fi

  case $words[2] in
    aq|pq)
      _arguments -C $common $remote '--id[item id]:id' \
        '(-l --list)'{-l,--list}'[list records only]'
      ;;
    dq|mq)
      _arguments -C $common $remote '--id[item id]:id'
      ;;
    hq)
      _arguments -C $common $remote \
        '(--animate --no-animate)--animate[count the total up]' \
        '(--animate --no-animate)--no-animate[print the total]' \
        '(-d --diff)'{-d,--diff}'[compare with the cached summary]'
      ;;
    bq|rq|wq)
      _arguments -C $common
      ;;
    dash)
      _arguments -C $remote '--tab[tab to open on]:tab:(minecraft discord ai websites papers mods)'
      ;;
    cache)
      _arguments '1: :((purge info))' '--hours[age in hours]:hours'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _statsctl statsctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: statsctl completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "statsctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
