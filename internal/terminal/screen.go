// Package terminal adapts a tcell screen to the render sink and the
// control source used by the live loop.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/grid"
)

var tcellColors = [grid.NumColors]tcell.Color{
	grid.Black:       tcell.ColorBlack,
	grid.DarkGrey:    tcell.ColorGray,
	grid.Grey:        tcell.ColorSilver,
	grid.White:       tcell.ColorWhite,
	grid.DarkRed:     tcell.ColorMaroon,
	grid.Red:         tcell.ColorRed,
	grid.DarkYellow:  tcell.ColorOlive,
	grid.Yellow:      tcell.ColorYellow,
	grid.DarkGreen:   tcell.ColorGreen,
	grid.Green:       tcell.ColorLime,
	grid.DarkCyan:    tcell.ColorTeal,
	grid.Cyan:        tcell.ColorAqua,
	grid.DarkBlue:    tcell.ColorNavy,
	grid.Blue:        tcell.ColorBlue,
	grid.DarkMagenta: tcell.ColorPurple,
	grid.Magenta:     tcell.ColorFuchsia,
}

// Color converts a grid colour to the matching tcell palette entry.
func Color(c grid.Color) tcell.Color {
	if int(c) < len(tcellColors) {
		return tcellColors[c]
	}
	return tcell.ColorDefault
}

// Screen is both a render.Sink and a control.Source. Sink methods are
// called from the presenter goroutine, Poll from the simulation loop.
type Screen struct {
	screen   tcell.Screen
	bindings control.Bindings

	events   chan tcell.Event
	pollDone chan struct{}

	x, y   int
	fg, bg grid.Color
}

// Open initialises the real terminal.
func Open(bindings control.Bindings) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	return NewWithScreen(s, bindings), nil
}

// NewWithScreen wraps an initialised tcell screen, e.g. a simulation screen
// in tests, and starts reading its events.
func NewWithScreen(s tcell.Screen, bindings control.Bindings) *Screen {
	if bindings == nil {
		bindings = control.DefaultBindings()
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()

	t := &Screen{
		screen:   s,
		bindings: bindings,
		events:   make(chan tcell.Event, 64),
		pollDone: make(chan struct{}),
		fg:       grid.White,
		bg:       grid.Black,
	}
	go t.pollEvents()
	return t
}

func (t *Screen) pollEvents() {
	defer close(t.pollDone)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		t.events <- ev
	}
}

// Size reports the terminal size in cells.
func (t *Screen) Size() (int, int) { return t.screen.Size() }

// Poll drains pending terminal events without blocking.
func (t *Screen) Poll() []control.Action {
	var out []control.Action
	for {
		select {
		case ev := <-t.events:
			if a := t.translate(ev); a != control.None {
				out = append(out, a)
			}
		default:
			return out
		}
	}
}

func (t *Screen) translate(ev tcell.Event) control.Action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		return control.Redraw
	case *tcell.EventKey:
		return t.bindings.Lookup(KeyName(ev))
	}
	return control.None
}

// KeyName renders a key event in the form used by control.Bindings.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	}
	return ""
}

func (t *Screen) ClearAll() { t.screen.Clear() }

func (t *Screen) ResetStyle() { t.fg, t.bg = grid.White, grid.Black }

func (t *Screen) MoveTo(x, y int) { t.x, t.y = x, y }

func (t *Screen) SetBackground(c grid.Color) { t.bg = c }

func (t *Screen) SetForeground(c grid.Color) { t.fg = c }

func (t *Screen) WriteGlyph(r rune) {
	style := tcell.StyleDefault.Foreground(Color(t.fg)).Background(Color(t.bg))
	t.screen.SetContent(t.x, t.y, r, nil, style)
	t.x++
}

// Flush makes the batch visible. tcell reports no write errors here.
func (t *Screen) Flush() error {
	t.screen.Show()
	return nil
}

// Close restores the terminal and waits briefly for the event reader.
func (t *Screen) Close() {
	t.screen.Fini()
	select {
	case <-t.pollDone:
	case <-time.After(100 * time.Millisecond):
	}
}
