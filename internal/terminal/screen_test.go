package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/render"
)

func newTestScreen(t *testing.T, w, h int) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	sim.SetSize(w, h)
	s := NewWithScreen(sim, nil)
	t.Cleanup(s.Close)
	return s
}

func TestScreenDrawsDirectives(t *testing.T) {
	s := newTestScreen(t, 8, 4)

	cur := grid.New(8, 4)
	cur.Set(3, 2, grid.Cell{Glyph: '/', Fg: grid.Yellow, Bg: grid.DarkMagenta})
	cur.Set(7, 3, grid.Cell{Glyph: '∙', Fg: grid.Cyan, Bg: grid.Black})

	if _, err := render.Render(s, nil, cur, true); err != nil {
		t.Fatalf("render: %v", err)
	}

	tests := []struct {
		x, y   int
		glyph  rune
		fg, bg tcell.Color
	}{
		{3, 2, '/', tcell.ColorYellow, tcell.ColorPurple},
		{7, 3, '∙', tcell.ColorAqua, tcell.ColorBlack},
		{0, 0, ' ', tcell.ColorWhite, tcell.ColorBlack},
	}
	for _, tt := range tests {
		r, _, style, _ := s.screen.GetContent(tt.x, tt.y)
		fg, bg, _ := style.Decompose()
		if r != tt.glyph || fg != tt.fg || bg != tt.bg {
			t.Errorf("cell (%d,%d): expected %q %v/%v, got %q %v/%v", tt.x, tt.y, tt.glyph, tt.fg, tt.bg, r, fg, bg)
		}
	}
}

func TestTranslate(t *testing.T) {
	s := newTestScreen(t, 4, 4)

	tests := []struct {
		name string
		ev   tcell.Event
		want control.Action
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), control.Quit},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), control.Quit},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), control.TogglePause},
		{"f", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), control.Spawn},
		{"help", tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone), control.ToggleHelp},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), control.None},
		{"resize", tcell.NewEventResize(10, 10), control.Redraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.translate(tt.ev); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPollInjectedKeys(t *testing.T) {
	s := newTestScreen(t, 4, 4)
	sim := s.screen.(tcell.SimulationScreen)
	sim.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, a := range s.Poll() {
			if a == control.Spawn {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("injected key never reached Poll")
}

func TestColorMappingIsDistinct(t *testing.T) {
	seen := map[tcell.Color]grid.Color{}
	for c := grid.Color(0); c < grid.NumColors; c++ {
		tc := Color(c)
		if prev, ok := seen[tc]; ok {
			t.Errorf("%s and %s both map to %v", prev, c, tc)
		}
		seen[tc] = c
	}
}
