// Package scene projects particles and smoke onto a grid of cells.
package scene

import (
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/smoke"
)

// PointGlyph is drawn for particles too slow to show a direction.
const PointGlyph = '∙'

// InFlight is the background written under particles. The smoke pass
// replaces it in the same frame.
const InFlight = grid.Blue

// Octant glyphs starting at heading 0 (east). Opposite octants share a line.
var octantGlyphs = [8]rune{'-', '\\', '|', '/', '-', '\\', '|', '/'}

type Compositor struct {
	BlurSpeed float64
	Policy    smoke.Policy
	// ColourFlicker selects the weighted colour draw; when false the
	// dominant hue is always presented.
	ColourFlicker bool
	// DensityFlicker enables the per-cell blink to black on thin smoke.
	DensityFlicker bool

	rng *rand.Rand
}

func NewCompositor(blurSpeed float64, colourFlicker, densityFlicker bool, rng *rand.Rand) *Compositor {
	policy := smoke.Dominant
	if colourFlicker {
		policy = smoke.Weighted
	}
	return &Compositor{
		BlurSpeed:      blurSpeed,
		Policy:         policy,
		ColourFlicker:  colourFlicker,
		DensityFlicker: densityFlicker,
		rng:            rng,
	}
}

// Draw writes particles and then the smoke backgrounds into g. Particles
// overwrite whatever the cell held; the smoke pass touches only the
// background of every cell.
func (c *Compositor) Draw(g *grid.Grid, particles []particle.Particle, field *smoke.Field) {
	for i := range particles {
		p := &particles[i]
		cx, cy, ok := grid.CellOf(p.Pos.X, p.Pos.Y, g.Columns, g.Rows)
		if !ok {
			continue
		}
		g.Set(cx, cy, grid.Cell{
			Glyph: Glyph(p.Vel, c.BlurSpeed),
			Fg:    p.Hue.Color(false),
			Bg:    InFlight,
		})
	}

	if field == nil {
		return
	}
	for x := 0; x < g.Columns; x++ {
		for y := 0; y < g.Rows; y++ {
			g.SetBackground(x, y, c.background(field, x, y))
		}
	}
}

func (c *Compositor) background(field *smoke.Field, x, y int) grid.Color {
	if field.Total(x, y) <= 0 {
		return grid.Black
	}
	hue, ok := field.Choose(x, y, c.Policy, c.rng)
	if !ok {
		return grid.Black
	}
	if c.DensityFlicker && field.BlinkedOut(x, y, c.rng) {
		return grid.Black
	}
	return hue.Color(true)
}

// Glyph picks the character for a particle moving with vel. Headings are
// bucketed into eight octants centred on the compass directions.
func Glyph(vel particle.Vec2, blurSpeed float64) rune {
	if vel.Len() < blurSpeed {
		return PointGlyph
	}
	theta := math.Mod(vel.Angle()+math.Pi/8, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	octant := int(theta / (math.Pi / 4))
	if octant > 7 {
		octant = 7
	}
	return octantGlyphs[octant]
}
