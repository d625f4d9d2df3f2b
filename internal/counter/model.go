// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package counter

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const frameInterval = time.Second / 60

var (
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type loadedMsg struct{ target int64 }

type frameMsg time.Time

// Model is a bubbletea model that shows a spinner while load runs and then
// counts up to its result.
type Model struct {
	label    string
	load     func() int64
	spinner  spinner.Model
	duration time.Duration
	clock    func() time.Time

	loaded  bool
	start   time.Time
	target  int64
	current int64
	done    bool
}

// NewModel returns a Model that calls load once when started.
func NewModel(label string, load func() int64) Model {
	return Model{
		label:    label,
		load:     load,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		duration: Duration,
		clock:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	load := m.load
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return loadedMsg{target: load()}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.current = m.target
			m.done = true
			return m, tea.Quit
		}

	case loadedMsg:
		m.loaded = true
		m.target = msg.target
		m.start = m.clock()
		return m, frame()

	case frameMsg:
		m.current = Value(m.target, time.Time(msg).Sub(m.start), m.duration)
		if m.current >= m.target {
			m.done = true
			return m, tea.Quit
		}
		return m, frame()

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return fmt.Sprintf("%s %s\n", m.spinner.View(), labelStyle.Render("loading "+m.label))
	}
	v := totalStyle.Render(humanize.Comma(m.current))
	if m.done {
		return fmt.Sprintf("%s %s\n", v, labelStyle.Render(m.label))
	}
	return v + "\n"
}

// Current is the value on screen.
func (m Model) Current() int64 {
	return m.current
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Run plays the animation on w and returns the final value.
func Run(w io.Writer, label string, load func() int64) (int64, error) {
	p := tea.NewProgram(NewModel(label, load), tea.WithOutput(w), tea.WithInput(nil))
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("failed to run counter: %w", err)
	}
	return final.(Model).Current(), nil
}
