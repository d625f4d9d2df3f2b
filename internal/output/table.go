// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"github.com/staranto/statsctl/internal/attrs"
	"github.com/staranto/statsctl/internal/config"
)

// TableWriter renders rows as a borderless table. Missing values print as
// "-".
func TableWriter(rows []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) error {
	if len(rows) == 0 {
		return nil
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		header, even, odd := getColors("colors")
		headerStyle = headerStyle.Foreground(lipgloss.Color(header))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(even))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(odd))
	}

	pad, _ := config.GetInt("padding", 1)

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(al))
		for _, attr := range al {
			if attr.Include {
				line = append(line, InterfaceToString(row[attr.OutputKey], "-"))
			}
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(cells...)

	if opts.Titles {
		var headers []string
		for _, attr := range al {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// getColors returns the configured title, even and odd row colours.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(key+".title", "#f6be00")
	even, _ = config.GetString(key+".even", "#ffffff")
	odd, _ = config.GetString(key+".odd", "#00c8f0")
	return
}
