package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/palette"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/smoke"
)

var testParams = smoke.Params{MaxDensity: 8, DissipationRate: 0.5, ProbabilityNorm: 0.25}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name string
		vel  particle.Vec2
		want rune
	}{
		{"still", particle.Vec2{}, PointGlyph},
		{"slow", particle.Vec2{X: 15.9}, PointGlyph},
		{"east", particle.Vec2{X: 40}, '-'},
		{"west", particle.Vec2{X: -40}, '-'},
		{"down", particle.Vec2{Y: 40}, '|'},
		{"up", particle.Vec2{Y: -40}, '|'},
		{"down right", particle.Vec2{X: 30, Y: 30}, '\\'},
		{"up left", particle.Vec2{X: -30, Y: -30}, '\\'},
		{"down left", particle.Vec2{X: -30, Y: 30}, '/'},
		{"up right", particle.Vec2{X: 30, Y: -30}, '/'},
		{"just under octant edge", particle.FromAngle(math.Pi/8 - 0.01).Scale(20), '-'},
		{"just over octant edge", particle.FromAngle(math.Pi/8 + 0.01).Scale(20), '\\'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Glyph(tt.vel, 16); got != tt.want {
				t.Errorf("Glyph(%+v) = %q, want %q", tt.vel, got, tt.want)
			}
		})
	}
}

func TestDrawParticles(t *testing.T) {
	g := grid.New(10, 5)
	c := NewCompositor(16, true, true, rand.New(rand.NewSource(1)))

	particles := []particle.Particle{
		{Pos: particle.Vec2{X: 2.7, Y: 1.2}, Vel: particle.Vec2{X: 50}, Hue: palette.Red},
		{Pos: particle.Vec2{X: 9, Y: 4}, Hue: palette.Cyan},
		{Pos: particle.Vec2{X: 10, Y: 0}, Hue: palette.Green},
		{Pos: particle.Vec2{X: 3, Y: -2}, Hue: palette.Green},
	}
	c.Draw(g, particles, nil)

	if got := g.At(2, 1); got != (grid.Cell{Glyph: '-', Fg: grid.Red, Bg: InFlight}) {
		t.Errorf("fast particle cell = %+v", got)
	}
	if got := g.At(9, 4); got != (grid.Cell{Glyph: PointGlyph, Fg: grid.Cyan, Bg: InFlight}) {
		t.Errorf("corner particle cell = %+v", got)
	}

	drawn := 0
	g.Cells(func(x, y int, cell grid.Cell) {
		if cell != grid.Blank {
			drawn++
		}
	})
	if drawn != 2 {
		t.Errorf("expected 2 drawn cells, got %d", drawn)
	}
}

func TestDrawSmokeBackground(t *testing.T) {
	g := grid.New(3, 3)
	field := smoke.NewField(3, 3, testParams)
	field.Absorb(1, 1, palette.Magenta, 4)

	c := NewCompositor(16, false, false, rand.New(rand.NewSource(2)))
	particles := []particle.Particle{{Pos: particle.Vec2{X: 1, Y: 1}, Hue: palette.Yellow}}
	c.Draw(g, particles, field)

	want := grid.Cell{Glyph: PointGlyph, Fg: grid.Yellow, Bg: grid.DarkMagenta}
	if got := g.At(1, 1); got != want {
		t.Errorf("smoky particle cell = %+v, want %+v", got, want)
	}
	g.Cells(func(x, y int, cell grid.Cell) {
		if x == 1 && y == 1 {
			return
		}
		if cell != grid.Blank {
			t.Errorf("cell (%d,%d) = %+v, want blank", x, y, cell)
		}
	})
}

func TestParticleWithoutSmokeLosesPlaceholder(t *testing.T) {
	g := grid.New(2, 2)
	field := smoke.NewField(2, 2, testParams)
	c := NewCompositor(16, true, true, rand.New(rand.NewSource(3)))

	c.Draw(g, []particle.Particle{{Pos: particle.Vec2{X: 0, Y: 0}, Hue: palette.Blue}}, field)

	got := g.At(0, 0)
	if got.Bg != grid.Black {
		t.Errorf("empty smoke should leave a black background, got %s", got.Bg)
	}
	if got.Glyph != PointGlyph || got.Fg != grid.Blue {
		t.Errorf("smoke pass touched the particle: %+v", got)
	}
}

func TestZeroDensityNeverBlinks(t *testing.T) {
	field := smoke.NewField(4, 4, testParams)
	c := NewCompositor(16, true, true, rand.New(rand.NewSource(4)))
	for i := 0; i < 50; i++ {
		g := grid.New(4, 4)
		c.Draw(g, nil, field)
		g.Cells(func(x, y int, cell grid.Cell) {
			if cell.Bg != grid.Black {
				t.Fatalf("empty cell (%d,%d) got background %s", x, y, cell.Bg)
			}
		})
	}
}

func TestDensityFlicker(t *testing.T) {
	field := smoke.NewField(1, 1, testParams)
	field.Absorb(0, 0, palette.Green, 0.025)

	count := func(flicker bool) int {
		c := NewCompositor(16, true, flicker, rand.New(rand.NewSource(5)))
		lit := 0
		for i := 0; i < 2000; i++ {
			g := grid.New(1, 1)
			c.Draw(g, nil, field)
			if g.At(0, 0).Bg == grid.DarkGreen {
				lit++
			}
		}
		return lit
	}

	if got := count(false); got != 2000 {
		t.Errorf("without flicker the cell should always show, lit %d/2000", got)
	}
	if got := count(true); got > 400 {
		t.Errorf("thin smoke should mostly blink out, lit %d/2000", got)
	}
}
