// Package tui renders a live terminal dashboard for a running simulation:
// throughput, thermodynamics, and the neighbor-list rebuild cadence.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mdsim/internal/nlist"
	"github.com/san-kum/mdsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	sim       *sim.Simulator
	title     string
	batch     int
	totalStep int

	paused bool
	done   bool
	err    error

	sps      float64
	spsHist  []float64
	tempHist []float64

	normal    int
	forced    int
	dangerous int
	neighbors nlist.ListStats
	occupancy nlist.Occupancy

	lastTick time.Time
}

// NewLive wraps a simulator in a dashboard. totalSteps <= 0 runs until
// quit.
func NewLive(s *sim.Simulator, title string, totalSteps int) *model {
	return &model{
		sim:       s,
		title:     title,
		batch:     50,
		totalStep: totalSteps,
		spsHist:   make([]float64, 0, 120),
		tempHist:  make([]float64, 0, 120),
	}
}

// Run starts the dashboard and blocks until it exits.
func (m *model) Run() error {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.lastTick = time.Time{}
		case "+", "=":
			m.batch *= 2
		case "-":
			if m.batch > 1 {
				m.batch /= 2
			}
		}
		return m, nil
	case tickMsg:
		if m.paused || m.done {
			return m, tick()
		}

		n := m.batch
		if m.totalStep > 0 {
			remaining := m.totalStep - int(m.sim.Steps())
			if remaining <= 0 {
				m.done = true
				return m, tick()
			}
			if n > remaining {
				n = remaining
			}
		}

		start := time.Now()
		if err := m.sim.Run(context.Background(), n); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if elapsed := time.Since(start).Seconds(); elapsed > 0 {
			m.sps = float64(n) / elapsed
		}

		m.spsHist = append(m.spsHist, m.sps)
		if len(m.spsHist) > 120 {
			m.spsHist = m.spsHist[1:]
		}
		m.tempHist = append(m.tempHist, m.sim.Temperature())
		if len(m.tempHist) > 120 {
			m.tempHist = m.tempHist[1:]
		}

		stats := m.sim.PopStats()
		m.normal += stats.NormalRebuilds
		m.forced += stats.ForcedRebuilds
		m.dangerous += stats.DangerousBuilds
		m.neighbors = stats.Neighbors
		m.occupancy = stats.Occupancy

		return m, tick()
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.done {
		statusIcon = cyan.Render("●")
		statusText = cyan.Render("finished")
	} else if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n\n",
		statusIcon, cyan.Render(m.title), statusText))

	b.WriteString(fmt.Sprintf("   %s %s   %s %s\n",
		dim.Render("step"), white.Render(fmt.Sprintf("%d", m.sim.Steps())),
		dim.Render("t"), white.Render(fmt.Sprintf("%.3f", float64(m.sim.Steps())*m.sim.Dt()))))

	b.WriteString(fmt.Sprintf("   %s %s  %s\n",
		dim.Render("steps/s"), white.Render(fmt.Sprintf("%.0f", m.sps)),
		cyan.Render(sparkline(m.spsHist, 32))))

	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n",
		dim.Render("temp   "), white.Render(fmt.Sprintf("%.3f", m.sim.Temperature())),
		yellow.Render(sparkline(m.tempHist, 32))))

	b.WriteString(fmt.Sprintf("   %s %s   %s %s\n",
		dim.Render("PE"), white.Render(fmt.Sprintf("%.2f", m.sim.PotentialEnergy())),
		dim.Render("KE"), white.Render(fmt.Sprintf("%.2f", m.sim.KineticEnergy()))))

	b.WriteString(fmt.Sprintf("   %s %s   %s %s\n",
		dim.Render("neighbors/particle"), white.Render(fmt.Sprintf("%.1f", m.neighbors.Mean)),
		dim.Render("max bucket"), white.Render(fmt.Sprintf("%d", m.occupancy.Max))))

	dangerStr := green.Render("0")
	if m.dangerous > 0 {
		dangerStr = red.Render(fmt.Sprintf("%d", m.dangerous))
	}
	b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s\n",
		dim.Render("rebuilds"), white.Render(fmt.Sprintf("%d", m.normal)),
		dim.Render("forced"), white.Render(fmt.Sprintf("%d", m.forced)),
		dim.Render("dangerous"), dangerStr))

	b.WriteString(fmt.Sprintf("   %s %s\n",
		dim.Render("batch"), dimmer.Render(fmt.Sprintf("%d steps/frame", m.batch))))

	b.WriteString("\n" + dim.Render("   space pause  ± batch  q quit") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
