package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/util/time/monotonic"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const (
	stopwatchTick = 100 * gtime.Millisecond
	maxLaps       = 10
)

var (
	elapsedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	lapStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

func newStopwatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stopwatch",
		Short: "Run an interactive stopwatch on the monotonic clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newStopwatchModel(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return oops.Wrapf(err, "stopwatch")
			}
			return nil
		},
	}
}

type tickMsg time.Time

type stopwatchModel struct {
	sw      *monotonic.Stopwatch
	elapsed gtime.Duration
	laps    []gtime.Duration
	// lapCount counts every lap, including those dropped from laps.
	lapCount int
	quitting bool
}

func newStopwatchModel() stopwatchModel {
	return stopwatchModel{sw: monotonic.StartStopwatch()}
}

func tick() tea.Cmd {
	return tea.Tick(stopwatchTick.Std(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m stopwatchModel) Init() tea.Cmd {
	return tick()
}

func (m stopwatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.elapsed = m.sw.Elapsed()
			m.quitting = true
			return m, tea.Quit
		case " ", "l":
			m.lapCount++
			m.laps = append(m.laps, m.sw.Lap())
			if len(m.laps) > maxLaps {
				m.laps = m.laps[len(m.laps)-maxLaps:]
			}
		case "r":
			m.sw.Reset()
			m.laps = nil
			m.lapCount = 0
		}
		m.elapsed = m.sw.Elapsed()
		return m, nil
	case tickMsg:
		m.elapsed = m.sw.Elapsed()
		return m, tick()
	}
	return m, nil
}

func (m stopwatchModel) View() string {
	var b strings.Builder
	b.WriteString(elapsedStyle.Render(m.elapsed.String()))
	first := m.lapCount - len(m.laps) + 1
	for i, lap := range m.laps {
		b.WriteString("\n")
		b.WriteString(lapStyle.Render(fmt.Sprintf("lap %d  %s", first+i, lap)))
	}
	if !m.quitting {
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("space/l: lap  r: reset  q: quit"))
	}
	return boxStyle.Render(b.String()) + "\n"
}
