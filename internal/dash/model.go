// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dash

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/state"
)

var (
	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3B82F6"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6B7280"))
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	detailStyle   = lipgloss.NewStyle().MarginTop(1).PaddingLeft(2).
			Border(lipgloss.NormalBorder(), false, false, false, true)
)

// Msgs carrying fetch results. They are exported for tests that drive the
// model without a program.
type (
	LoadedMsg struct {
		Tab   state.Tab
		Items []state.Item
		Err   error
	}
	ImpactMsg struct {
		Snapshot aggregate.Snapshot
	}
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx     context.Context
	state   state.State
	loaders map[state.Tab]Loader
	impact  func(context.Context) aggregate.Snapshot
	spinner spinner.Model
}

// NewModel returns a dashboard opening on tab. impact may be nil, in which
// case no total is shown.
func NewModel(ctx context.Context, tab state.Tab, loaders map[state.Tab]Loader, impact func(context.Context) aggregate.Snapshot) Model {
	s := state.New().Apply(state.TabSelected{Tab: tab})
	if _, ok := loaders[s.Tab]; ok {
		s = s.Apply(state.FetchStarted{Tab: s.Tab})
	}
	return Model{
		ctx:     ctx,
		state:   s,
		loaders: loaders,
		impact:  impact,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// State is the current application state.
func (m Model) State() state.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.impact != nil {
		ctx, impact := m.ctx, m.impact
		cmds = append(cmds, func() tea.Msg {
			return ImpactMsg{Snapshot: impact(ctx)}
		})
	}
	return tea.Batch(append(cmds, m.fetch(m.state.Tab))...)
}

// fetch returns the command that runs the loader of tab.
func (m Model) fetch(tab state.Tab) tea.Cmd {
	load, ok := m.loaders[tab]
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		items, err := load(ctx)
		return LoadedMsg{Tab: tab, Items: items, Err: err}
	}
}

// load marks tab loading and returns the command that fetches it.
func (m Model) load(tab state.Tab) (Model, tea.Cmd) {
	cmd := m.fetch(tab)
	if cmd != nil {
		m.state = m.state.Apply(state.FetchStarted{Tab: tab})
	}
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)

	case LoadedMsg:
		if msg.Err != nil {
			m.state = m.state.Apply(state.FetchFailed{Tab: msg.Tab, Err: msg.Err})
		} else {
			m.state = m.state.Apply(state.FetchSucceeded{Tab: msg.Tab, Items: msg.Items})
		}
		return m, nil

	case ImpactMsg:
		m.state = m.state.Apply(state.ImpactLoaded{Snapshot: msg.Snapshot})
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "tab":
		return m.selectTab(m.tabOffset(1))
	case "left", "h", "shift+tab":
		return m.selectTab(m.tabOffset(-1))
	case "down", "j":
		return m.moveSelection(1), nil
	case "up", "k":
		return m.moveSelection(-1), nil
	case "r":
		return m.load(m.state.Tab)
	default:
		if len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(state.Tabs) {
			return m.selectTab(state.Tabs[k[0]-'1'])
		}
	}
	return m, nil
}

func (m Model) tabOffset(d int) state.Tab {
	i := slices.Index(state.Tabs, m.state.Tab)
	n := len(state.Tabs)
	return state.Tabs[((i+d)%n+n)%n]
}

// selectTab switches tabs and loads the tab the first time it is shown.
func (m Model) selectTab(tab state.Tab) (tea.Model, tea.Cmd) {
	m.state = m.state.Apply(state.TabSelected{Tab: tab})
	src := m.state.Current()
	if src.Items == nil && src.Err == nil && !src.Loading {
		return m.load(tab)
	}
	return m, nil
}

func (m Model) moveSelection(d int) Model {
	src := m.state.Current()
	if len(src.Items) == 0 {
		return m
	}
	i := slices.IndexFunc(src.Items, func(it state.Item) bool { return it.ID == src.Selected })
	i = min(max(i+d, 0), len(src.Items)-1)
	m.state = m.state.Apply(state.ItemSelected{Tab: m.state.Tab, ID: src.Items[i].ID})
	return m
}

func (m Model) View() string {
	var b strings.Builder

	if snap := m.state.Impact; snap != nil {
		fmt.Fprintf(&b, "%s %s\n\n", totalStyle.Render(humanize.Comma(snap.TotalImpact)), dimStyle.Render("people reached"))
	}

	tabs := make([]string, 0, len(state.Tabs))
	for i, t := range state.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.state.Tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	src := m.state.Current()
	switch {
	case src.Loading:
		fmt.Fprintf(&b, "%s loading %s\n", m.spinner.View(), m.state.Tab)
	case src.Err != nil:
		b.WriteString(errStyle.Render("failed to load " + string(m.state.Tab) + ": " + src.Err.Error()))
		b.WriteString("\n")
	}

	if !src.Loading {
		for _, it := range src.Items {
			line := it.Title
			if it.Count > 0 {
				line += "  " + humanize.Comma(it.Count)
			}
			if it.Subtitle != "" {
				line += "  " + dimStyle.Render(it.Subtitle)
			}
			if it.ID == src.Selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if it, ok := src.SelectedItem(); ok && len(it.Fields) > 0 {
		var d strings.Builder
		for i, f := range it.Fields {
			if i > 0 {
				d.WriteString("\n")
			}
			fmt.Fprintf(&d, "%s %s", dimStyle.Render(f.Label+":"), f.Value)
		}
		b.WriteString(detailStyle.Render(d.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n" + dimStyle.Render("←/→ tab  ↑/↓ select  r reload  q quit") + "\n")
	return b.String()
}

// Run shows the dashboard on w until the user quits and returns the final
// state.
func Run(ctx context.Context, w io.Writer, m Model) (state.State, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(w), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return m.state, fmt.Errorf("failed to run dashboard: %w", err)
	}
	return final.(Model).state, nil
}
