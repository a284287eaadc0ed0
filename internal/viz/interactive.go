package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var presetInfo = map[string]string{
	"classic": "the reference show",
	"small":   "scaled for small terminals",
	"calm":    "slow launches, steady smoke",
	"finale":  "rapid fire with crackle",
	"mono":    "white and gold only",
}

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pink   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Builder creates the live show for a preset.
type Builder func(preset string) (Model, error)

const (
	stateMenu = iota
	stateShow
)

// Picker lists presets and starts the chosen one.
type Picker struct {
	state   int
	cursor  int
	presets []string
	build   Builder
	live    Model
	err     error
	width   int
	height  int
}

func NewPicker(presets []string, build Builder) Picker {
	return Picker{presets: presets, build: build}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.width, p.height = size.Width, size.Height
	}
	if p.state == stateShow {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	if len(p.presets) == 0 {
		return p, nil
	}
	live, err := p.build(p.presets[p.cursor])
	if err != nil {
		p.err = err
		return p, nil
	}
	p.err = nil
	p.live, p.state = live, stateShow
	if p.width > 0 {
		next, _ := p.live.Update(tea.WindowSizeMsg{Width: p.width, Height: p.height})
		p.live = next.(Model)
	}
	return p, p.live.Init()
}

// Selected is the preset under the cursor.
func (p Picker) Selected() string {
	if len(p.presets) == 0 {
		return ""
	}
	return p.presets[p.cursor]
}

func (p Picker) Started() bool { return p.state == stateShow }

func (p Picker) View() string {
	if p.state == stateShow {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render("FIREWORKS") + "\n    " + dim.Render("pick a show") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := presetInfo[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-10s", name)), pink.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-10s", name)), dimmer.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + red.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + cyan.Render("j/k") + dim.Render(" navigate  ") + cyan.Render("enter") + dim.Render(" start  ") + cyan.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// Run starts a Bubble Tea program on the alternate screen.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
