package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

const (
	width           = 60
	height          = 12
	historyCapacity = 240
	frameInterval   = time.Second / 60
)

var paramKeys = []string{"tension", "friction", "mass"}

type TickMsg time.Time

// frames is the Scheduler the live view hands to its spring. The view's
// own tea.Tick loop only ticks the spring while it is registered.
type frames struct {
	active bool
	steps  int
}

func (f *frames) Register(*spring.Spring)   { f.active = true }
func (f *frames) Unregister(*spring.Spring) { f.active = false }

// Model is a bubbletea program animating one spring.
type Model struct {
	name     string
	spring   *spring.Spring
	sched    *frames
	from, to dynamo.Value

	history  []float64
	velocity []float64
	selected int
	theme    Theme
	styles   styles
	canvas   *Canvas
	showHelp bool
	err      error
}

// NewModel builds the spring from opts, replacing its Scheduler, and
// starts it.
func NewModel(opts spring.Options, name string) (Model, error) {
	sched := &frames{}
	opts.Scheduler = sched
	onFrame := opts.OnFrame
	opts.OnFrame = func(v dynamo.Value, s *spring.Spring) {
		sched.steps++
		if onFrame != nil {
			onFrame(v, s)
		}
	}

	s, err := spring.New(opts)
	if err != nil {
		return Model{}, err
	}
	s.Start()

	return Model{
		name:     name,
		spring:   s,
		sched:    sched,
		from:     opts.Value,
		to:       opts.Target,
		history:  make([]float64, 0, historyCapacity),
		velocity: make([]float64, 0, historyCapacity),
		theme:    Themes[0],
		styles:   newStyles(Themes[0]),
		canvas:   NewCanvas(width, height),
	}, nil
}

func (m Model) Spring() *spring.Spring { return m.spring }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.spring.Resting() {
				m.spring.Start()
			} else {
				m.spring.Pause()
			}
		case "s":
			m.spring.Stop()
		case "c":
			m.spring.Complete()
		case "enter":
			m.retarget()
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(paramKeys)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.sched.active {
			m.spring.Tick()
			m.record()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) record() {
	m.history = appendCapped(m.history, m.spring.Position())
	m.velocity = appendCapped(m.velocity, m.spring.Velocity())
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// retarget swaps the target between the two endpoints without stopping,
// so the spring turns around carrying its velocity.
func (m *Model) retarget() {
	next := m.to
	if m.spring.Target().Equal(m.to) {
		next = m.from
	}
	if err := m.spring.SetTarget(next); err != nil {
		m.err = err
		return
	}
	m.spring.Start()
}

func (m *Model) reset() {
	m.spring.Stop()
	if err := m.spring.Set(m.from, m.to); err != nil {
		m.err = err
		return
	}
	m.history = m.history[:0]
	m.velocity = m.velocity[:0]
	m.sched.steps = 0
	m.spring.Start()
}

func (m *Model) adjustParam(factor float64) {
	p := m.spring.Params()
	var err error
	switch paramKeys[m.selected] {
	case "tension":
		err = m.spring.SetTension(p.Tension * factor)
	case "friction":
		err = m.spring.SetFriction(p.Friction * factor)
	case "mass":
		err = m.spring.SetMass(p.Mass * factor)
	}
	m.err = err
}

func (m Model) paramValue(key string) float64 {
	p := m.spring.Params()
	switch key {
	case "tension":
		return p.Tension
	case "friction":
		return p.Friction
	default:
		return p.Mass
	}
}

func (m Model) status() string {
	switch {
	case !m.spring.Resting():
		return m.styles.running.Render("RUNNING")
	case m.spring.RestingAtTarget():
		return m.styles.resting.Render("AT REST")
	default:
		return m.styles.resting.Render("PAUSED")
	}
}

// progress is how far along the path from the endpoints' means the spring is.
func (m Model) progress() float64 {
	lo, hi := m.from.Mean(), m.to.Mean()
	if hi == lo {
		return 1
	}
	return (m.spring.Position() - lo) / (hi - lo)
}

func (m Model) draw() {
	m.canvas.Clear()
	v := m.spring.Value()
	if v.IsVector() && v.Len() == 2 {
		fx := bounded(v.At(0), m.from.At(0), m.to.At(0))
		fy := bounded(v.At(1), m.from.At(1), m.to.At(1))
		m.canvas.DrawPoint(fx, fy)
		return
	}
	// leave a quarter of the track on either side for overshoot
	m.canvas.DrawSpring(0.25 + 0.5*m.progress())
}

// bounded maps x into [0, 1] over [a, b] with a quarter margin each side.
func bounded(x, a, b float64) float64 {
	if a == b {
		return 0.5
	}
	return 0.25 + 0.5*(x-a)/(b-a)
}

func (m Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("position"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.label.Render("Value") + st.value.Render(m.spring.Value().String()) + "\n")
	s.WriteString(st.label.Render("Target") + st.value.Render(m.spring.Target().String()) + "\n")
	s.WriteString(st.label.Render("Velocity") + st.value.Render(fmt.Sprintf("%.3f", m.spring.Velocity())) + "\n")
	s.WriteString(st.label.Render("Sub-steps") + st.value.Render(fmt.Sprintf("%d", m.sched.steps)) + "\n")
	s.WriteString(st.label.Render("Progress") + st.value.Render(ProgressBar(m.progress(), 20)) + "\n")
	s.WriteString(st.label.Render("Speed") + st.value.Render(Sparkline(absAll(m.velocity), 20)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range paramKeys {
		line := fmt.Sprintf("%-10s %.2f", k, m.paramValue(k))
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + st.resting.Render(m.err.Error()) + "\n")
	}

	help := "SP:Start/Pause S:Stop C:Complete Q:Quit\nEnter:Retarget R:Reset Tab/↑↓:Tune ?:Help"
	if m.showHelp {
		help += "\nT:Theme (" + m.theme.Name + ")"
	}
	s.WriteString(st.help.Render(help))

	canvasView := st.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

func absAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Abs(x)
	}
	return out
}

// Run blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
