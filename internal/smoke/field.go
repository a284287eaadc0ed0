// Package smoke implements the per-cell colour density field left behind by
// particles. Every grid coordinate holds one density per hue; densities
// decay linearly, absorb emission additively and are clamped to
// [0, MaxDensity].
package smoke

import (
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/palette"
)

// Policy selects how a cell's presented hue is derived from its densities.
type Policy int

const (
	// Weighted draws a hue with probability proportional to its density.
	Weighted Policy = iota
	// Dominant always presents the densest hue.
	Dominant
)

func (p Policy) String() string {
	if p == Dominant {
		return "dominant"
	}
	return "weighted"
}

type Params struct {
	MaxDensity      float64
	DissipationRate float64
	// ProbabilityNorm is the total density at or above which a cell never
	// blinks out.
	ProbabilityNorm float64
}

// Cell holds one density per hue, indexed by the hue ordinal.
type Cell [palette.Count]float64

func (c *Cell) Total() float64 {
	total := 0.0
	for _, d := range c {
		total += d
	}
	return total
}

type Field struct {
	columns, rows int
	params        Params
	cells         []Cell
}

func NewField(columns, rows int, p Params) *Field {
	return &Field{
		columns: columns,
		rows:    rows,
		params:  p,
		cells:   make([]Cell, columns*rows),
	}
}

func (f *Field) Columns() int   { return f.columns }
func (f *Field) Rows() int      { return f.rows }
func (f *Field) Params() Params { return f.params }

func (f *Field) inBounds(x, y int) bool {
	return x >= 0 && x < f.columns && y >= 0 && y < f.rows
}

func (f *Field) cell(x, y int) *Cell { return &f.cells[x*f.rows+y] }

// Decay lowers every density by DissipationRate*dt, flooring at zero.
func (f *Field) Decay(dt float64) {
	loss := f.params.DissipationRate * dt
	for i := range f.cells {
		c := &f.cells[i]
		for h := range c {
			c[h] = math.Max(0, c[h]-loss)
		}
	}
}

// Absorb adds amount of hue h at (x, y), capped at MaxDensity. Coordinates
// outside the field are ignored.
func (f *Field) Absorb(x, y int, h palette.Hue, amount float64) {
	if !f.inBounds(x, y) || int(h) >= palette.Count {
		return
	}
	c := f.cell(x, y)
	c[h] = math.Max(0, math.Min(f.params.MaxDensity, c[h]+amount))
}

func (f *Field) Density(x, y int, h palette.Hue) float64 {
	if !f.inBounds(x, y) || int(h) >= palette.Count {
		return 0
	}
	return f.cell(x, y)[h]
}

func (f *Field) Total(x, y int) float64 {
	if !f.inBounds(x, y) {
		return 0
	}
	return f.cell(x, y).Total()
}

// Mass is the summed density of the whole field.
func (f *Field) Mass() float64 {
	total := 0.0
	for i := range f.cells {
		total += f.cells[i].Total()
	}
	return total
}

// Reset zeroes every density.
func (f *Field) Reset() {
	for i := range f.cells {
		f.cells[i] = Cell{}
	}
}

// Choose returns the hue presented at (x, y). ok is false when the cell
// holds no smoke.
func (f *Field) Choose(x, y int, policy Policy, rng *rand.Rand) (palette.Hue, bool) {
	if !f.inBounds(x, y) {
		return 0, false
	}
	c := f.cell(x, y)
	total := c.Total()
	if total <= 0 {
		return 0, false
	}

	if policy == Dominant {
		best, highest := palette.Grey, math.Inf(-1)
		for _, h := range palette.Hues {
			if c[h] > highest {
				best, highest = h, c[h]
			}
		}
		return best, true
	}

	chooser := rng.Float64() * total
	for _, h := range palette.Hues {
		if chooser < c[h] {
			return h, true
		}
		chooser -= c[h]
	}
	return 0, false
}

// BlinkedOut reports whether the cell's smoke drops to background this
// frame. Thin smoke blinks far more often than dense smoke. Empty cells
// never blink and consume no random draw.
func (f *Field) BlinkedOut(x, y int, rng *rand.Rand) bool {
	total := f.Total(x, y)
	if total <= 0 || f.params.ProbabilityNorm <= 0 {
		return false
	}
	return rng.Float64() < 1-total/f.params.ProbabilityNorm
}
