package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/export"
	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/overlay"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/sim"
)

const (
	historyCapacity = 600
	panelWidth      = 46
	gifScale        = 4
)

type TickMsg time.Time

// Model runs a simulator at a fixed tick and renders it with a stats
// panel.
type Model struct {
	sim      *sim.Simulator
	title    string
	bindings control.Bindings
	painter  *Painter
	theme    Theme
	styles   styles

	fps int
	dt  float64

	running  bool
	showHelp bool
	frame    *grid.Grid
	prev     *grid.Grid

	directives   int
	particleHist []float64
	smokeHist    []float64

	width, height int

	recordPath string
	recorder   *export.GIFRecorder
	recPrev    *grid.Grid
	status     string
}

func NewModel(s *sim.Simulator, title string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	p := s.Params()
	return Model{
		sim:          s,
		title:        title,
		bindings:     control.DefaultBindings(),
		painter:      NewPainter(),
		theme:        ThemeNight,
		styles:       newStyles(ThemeNight),
		fps:          fps,
		dt:           1 / float64(fps),
		running:      true,
		frame:        grid.New(p.Columns, p.Rows),
		particleHist: make([]float64, 0, historyCapacity),
		smokeHist:    make([]float64, 0, historyCapacity),
		recordPath:   "fireworks.gif",
	}
}

// RecordTo sets where G recordings are saved.
func (m Model) RecordTo(path string) Model {
	m.recordPath = path
	return m
}

// WithTheme selects the panel theme by name.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.styles = newStyles(m.theme)
	return m
}

func (m Model) Running() bool   { return m.running }
func (m Model) ShowHelp() bool  { return m.showHelp }
func (m Model) Recording() bool { return m.recorder != nil }
func (m Model) Theme() Theme    { return m.theme }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			m = m.WithTheme(next(m.theme).Name)
			return m, nil
		case "g":
			m.toggleRecording()
			return m, nil
		}
		switch m.bindings.Lookup(msg.String()) {
		case control.Quit:
			if m.recorder != nil {
				m.toggleRecording()
			}
			return m, tea.Quit
		case control.TogglePause:
			m.running = !m.running
		case control.ToggleHelp:
			m.showHelp = !m.showHelp
		case control.Spawn:
			m.sim.SpawnFirework()
		case control.Redraw:
			return m, tea.ClearScreen
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// step advances the show one tick and records history.
func (m *Model) step() {
	if m.running {
		m.sim.Step(m.dt)
	}

	m.prev = m.frame
	m.frame = m.sim.Frame()
	m.directives = len(render.Diff(m.prev, m.frame, false))

	if m.recorder != nil {
		if _, err := render.Render(m.recorder, m.recPrev, m.frame, m.recPrev == nil); err != nil {
			m.status = err.Error()
		}
		m.recPrev = m.frame
	}

	sm := m.sim.Sample(m.directives)
	m.sim.Observe(sm)
	m.particleHist = appendCapped(m.particleHist, float64(sm.Particles))
	m.smokeHist = appendCapped(m.smokeHist, sm.Smoke)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		p := m.sim.Params()
		m.recorder = export.NewGIFRecorder(p.Columns, p.Rows, gifScale)
		m.recorder.Delay = max(1, 100/m.fps)
		m.recPrev = nil
		m.status = "recording"
		return
	}

	rec := m.recorder
	m.recorder, m.recPrev = nil, nil
	if err := saveGIF(rec, m.recordPath); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", rec.Frames(), m.recordPath)
}

func saveGIF(rec *export.GIFRecorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// View renders the show and the stats panel side by side.
func (m Model) View() string {
	frame := m.frame
	if m.showHelp {
		frame = frame.Clone()
		overlay.Centered(frame, control.Help(), grid.White, grid.Black)
	}

	maxCols, maxRows := 0, 0
	if m.width > 0 {
		maxCols = m.width - panelWidth
		if maxCols < 1 {
			maxCols = 1
		}
	}
	if m.height > 0 {
		maxRows = m.height
	}
	show := m.painter.Render(frame, maxCols, maxRows)

	return lipgloss.JoinHorizontal(lipgloss.Top, show, m.styles.panel.Render(m.panel()))
}

func (m Model) panel() string {
	st := m.styles
	var s strings.Builder

	title := m.title
	if title == "" {
		title = "fireworks"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")

	if m.running {
		s.WriteString(st.running.Render("RUNNING"))
	} else {
		s.WriteString(st.paused.Render("PAUSED"))
	}
	if m.recorder != nil {
		s.WriteString("  " + st.alert.Render(fmt.Sprintf("REC %d", m.recorder.Frames())))
	}
	s.WriteString("\n")

	if len(m.particleHist) > 1 {
		chart := asciigraph.Plot(m.particleHist, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("particles"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	sm := m.sim.Sample(m.directives)
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", sm.Time))
	row("Particles", fmt.Sprintf("%d", sm.Particles))
	row("Payload", fmt.Sprintf("%d", sm.Payload))
	row("Launches", fmt.Sprintf("%d", sm.Launches))
	row("Smoke", fmt.Sprintf("%.1f", sm.Smoke))
	row("Directives", fmt.Sprintf("%d", sm.Directives))
	s.WriteString(st.label.Render("Smoke") + st.sparkline(m.smokeHist, 28) + "\n")

	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause F:Launch Q:Quit\nT:Theme  G:Record ?:Help"))
	return s.String()
}
