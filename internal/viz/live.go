package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/calebmah/odekit/internal/solver"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// FrameMsg is one logged frame delivered to the UI.
type FrameMsg struct {
	T      float64
	Values map[string]float64
	Order  []string
}

type doneMsg struct{}

// Live bridges a running System to a bubbletea program. It implements
// runner.Observer: each logged frame is forwarded over a channel, and a
// slow terminal drops frames rather than stalling the run.
type Live struct {
	title  string
	watch  string
	sys    *solver.System
	frames chan tea.Msg
}

// NewLive returns a live view following the named series of sys. The
// system must be set up before the first frame arrives.
func NewLive(title, watch string, sys *solver.System) *Live {
	return &Live{
		title:  title,
		watch:  watch,
		sys:    sys,
		frames: make(chan tea.Msg, 64),
	}
}

func (l *Live) OnFrame(t float64, vec []float64, log *solver.Log) {
	vals, err := l.sys.Unpack(vec)
	if err != nil {
		return
	}
	order := l.sys.Slicer().Names()
	flat := make(map[string]float64, len(vals)+4)
	for name, v := range vals {
		if len(v) > 0 {
			flat[name] = v[0]
		}
	}
	for _, name := range log.Names() {
		if _, seen := flat[name]; !seen {
			order = append(order, name)
		}
		v, _ := log.Value(name)
		flat[name] = v
	}
	select {
	case l.frames <- FrameMsg{T: t, Values: flat, Order: order}:
	default:
	}
}

// Done signals that the run finished; the view stays open until quit.
func (l *Live) Done() {
	select {
	case l.frames <- doneMsg{}:
	default:
	}
}

// Show runs the bubbletea program until the user quits. Call it on the
// main goroutine while the runner drives the system on another.
func (l *Live) Show() error {
	m := liveModel{
		title:   l.title,
		watch:   l.watch,
		frames:  l.frames,
		history: make([]float64, 0, historyCapacity),
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

type liveModel struct {
	title   string
	watch   string
	frames  chan tea.Msg
	history []float64
	t       float64
	values  map[string]float64
	order   []string
	done    bool
}

func (m liveModel) next() tea.Cmd {
	return func() tea.Msg { return <-m.frames }
}

func (m liveModel) Init() tea.Cmd { return m.next() }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case FrameMsg:
		m.t = msg.T
		m.values = msg.Values
		m.order = msg.Order
		if v, ok := msg.Values[m.watch]; ok {
			m.history = append(m.history, v)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, m.next()
	case doneMsg:
		m.done = true
		return m, nil
	}
	return m, nil
}

func (m liveModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if m.done {
		status = "FINISHED"
	}
	s.WriteString(fmt.Sprintf("%s  t=%.3fs\n", status, m.t))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(m.watch))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	for _, name := range m.order {
		v, ok := m.values[name]
		if !ok {
			continue
		}
		s.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%+.4f", v)) + "\n")
	}

	s.WriteString(helpStyle.Render("q: quit"))
	return s.String()
}
