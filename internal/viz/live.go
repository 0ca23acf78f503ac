// Package viz renders a live terminal view of a running simulation.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"tlinesim/internal/fdtd"
	"tlinesim/internal/sim"
)

const (
	graphWidth  = 90
	graphHeight = 14
	frameRate   = 30
)

var (
	graphStyle  = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model advances a simulation by a fixed slice of simulated time per frame
// and draws the instantaneous voltage profile.
type Model struct {
	build func() (*sim.Simulation, error)

	simulation    *sim.Simulation
	stepsPerFrame int
	title         string

	running bool
	steps   int
	err     error
}

// NewModel wires a live view around a simulation factory; the factory is
// re-invoked when the user resets.
func NewModel(title string, stepsPerFrame int, build func() (*sim.Simulation, error)) (Model, error) {
	simulation, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		build:         build,
		simulation:    simulation,
		stepsPerFrame: stepsPerFrame,
		title:         title,
		running:       true,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			simulation, err := m.build()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.simulation = simulation
			m.steps = 0
			m.running = true
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			duration := float64(m.stepsPerFrame) * m.simulation.Params().DeltaT
			if err := m.simulation.Run(sim.RunOptions{Duration: duration}); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.steps += m.stepsPerFrame
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	state := m.simulation.State()
	graph := asciigraph.Plot(downsample(state.Voltages, graphWidth),
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("voltage along the line"),
	)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(m.title) + "\n\n")
	writeStat(&stats, "time", fmt.Sprintf("%.4e s", state.Time))
	writeStat(&stats, "steps", fmt.Sprintf("%d", m.steps))
	writeStat(&stats, "V start", fmt.Sprintf("%+.4f V", state.Voltages[0]))
	writeStat(&stats, "V end", fmt.Sprintf("%+.4f V", state.Voltages[len(state.Voltages)-1]))
	if h, ok := m.simulation.Solver().Line().(fdtd.Hamiltonian); ok {
		writeStat(&stats, "line energy", fmt.Sprintf("%.4e J", h.Energy(state)))
	}
	if !m.running {
		writeStat(&stats, "status", "paused")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(graph),
		statsStyle.Render(stats.String()),
	)
	help := helpStyle.Render("space pause · r reset · q quit")
	return body + "\n" + help + "\n"
}

func writeStat(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
}

// downsample reduces a profile to at most width samples so wide lines
// still fit one terminal row per column.
func downsample(row []float64, width int) []float64 {
	if len(row) <= width {
		out := make([]float64, len(row))
		copy(out, row)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = row[i*(len(row)-1)/(width-1)]
	}
	return out
}
