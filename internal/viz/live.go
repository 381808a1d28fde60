package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdtd1d/internal/fdtd"
	"github.com/san-kum/fdtd1d/internal/metrics"
)

const (
	defaultWidth    = 80
	defaultHeight   = 16
	historyCapacity = 120
	maxStepsFrame   = 64
	statsWidth      = 46
	fieldBound      = 1.2
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one simulator from the Bubble Tea event loop.
type Model struct {
	cfg           fdtd.Config
	sim           *fdtd.Simulator
	stepsPerFrame int
	width, height int
	running       bool
	showHelp      bool
	energy        []float64
	peak          float64
}

// NewModel builds the simulator from cfg. Construction errors are returned unchanged.
func NewModel(cfg fdtd.Config, stepsPerFrame int) (Model, error) {
	sim, err := fdtd.New(cfg)
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:           cfg,
		sim:           sim,
		stepsPerFrame: min(max(stepsPerFrame, 1), maxStepsFrame),
		width:         defaultWidth,
		height:        defaultHeight,
		running:       true,
		energy:        make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys, resizes and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			m.running = false
			m.step(1)
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-statsWidth-12, 20)
		m.height = max(msg.Height-8, 6)
	case TickMsg:
		if m.running {
			m.step(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(n int) {
	for range n {
		m.sim.Iterate()
	}
	e := metrics.FieldEnergy(m.sim.Snapshot())
	m.peak = max(m.peak, e)
	m.energy = append(m.energy, e)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

// reset rebuilds the simulator from the original configuration.
func (m *Model) reset() {
	sim, err := fdtd.New(m.cfg)
	if err != nil {
		return
	}
	m.sim = sim
	m.energy = m.energy[:0]
	m.peak = 0
}

func (m Model) Simulator() *fdtd.Simulator { return m.sim }
func (m Model) Running() bool              { return m.running }
func (m Model) StepsPerFrame() int         { return m.stepsPerFrame }
func (m Model) EnergyHistory() []float64   { return m.energy }

func (m Model) View() string {
	ez := m.sim.Ez()
	caption := fmt.Sprintf("Ez  step %d", m.sim.TimeStep())
	graph := asciigraph.Plot(ez,
		asciigraph.Height(m.height),
		asciigraph.Width(m.width),
		asciigraph.LowerBound(-fieldBound),
		asciigraph.UpperBound(fieldBound),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(CurrentTheme.Graph),
	)

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	cfg := m.sim.Config()
	var s strings.Builder
	s.WriteString(headerStyle().Render("FDTD 1D") + "\n")
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")
	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sim.TimeStep()))
	row("Time", fmt.Sprintf("%.3e s", m.sim.Time()))
	row("Source", fmt.Sprintf("%s %s %s @%d", cfg.SourceType, cfg.SourceWave, cfg.SourceField, cfg.SourcePosition))
	row("Boundary", cfg.Boundary.String())
	row("Speed", fmt.Sprintf("%d steps/frame", m.stepsPerFrame))
	row("Injected", fmt.Sprintf("%+.4f", m.sim.SourceValue()))

	energy := 0.0
	if len(m.energy) > 0 {
		energy = m.energy[len(m.energy)-1]
	}
	row("Energy", fmt.Sprintf("%.4g", energy))
	s.WriteString(Sparkline(m.energy, statsWidth-8) + "\n")
	if m.peak > 0 {
		row("Residual", fmt.Sprintf("%.1f%%", 100*energy/m.peak))
		s.WriteString(ProgressBar(energy/m.peak, statsWidth-8) + "\n")
	}
	s.WriteString(helpStyle().Render("SP:Pause R:Reset N:Step\n+/-:Speed T:Theme Q:Quit ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(graph),
		panelStyle().Width(statsWidth).Render(s.String()),
	)
	if m.showHelp {
		return helpPanel() + "\n\n" + view
	}
	return view
}

func helpPanel() string {
	lines := []string{
		"Space  pause / resume",
		"N      single step (pauses)",
		"R      reset fields",
		"+ / -  double / halve steps per frame",
		"T      cycle themes",
		"?      toggle this help",
		"Q      quit",
	}
	return panelStyle().Render(headerStyle().Render("KEYBOARD SHORTCUTS") + "\n" + strings.Join(lines, "\n"))
}

// Run starts the live view in the alternate screen.
func Run(cfg fdtd.Config, stepsPerFrame int) error {
	m, err := NewModel(cfg, stepsPerFrame)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
