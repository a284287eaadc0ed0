// Package render turns grids into display directives and hands them to a
// sink, drawing only what changed since the previous frame.
package render

import (
	"github.com/san-kum/fireworks/internal/grid"
)

// Directive places one cell: move to (X, Y), set both colours, write the glyph.
type Directive struct {
	X, Y int
	Cell grid.Cell
}

// Sink is the display surface directives are written to. Nothing is
// guaranteed visible before Flush returns.
type Sink interface {
	ClearAll()
	ResetStyle()
	MoveTo(x, y int)
	SetBackground(c grid.Color)
	SetForeground(c grid.Color)
	WriteGlyph(r rune)
	Flush() error
}

// Diff lists the cells of cur that differ from prev, in the grid's own
// column-then-row scan order. With force, or when prev is missing or a
// different size, every cell is listed.
func Diff(prev, cur *grid.Grid, force bool) []Directive {
	if cur == nil {
		return nil
	}
	full := force || prev == nil || prev.Columns != cur.Columns || prev.Rows != cur.Rows

	var out []Directive
	if full {
		out = make([]Directive, 0, cur.Columns*cur.Rows)
	}
	cur.Cells(func(x, y int, c grid.Cell) {
		if full || prev.At(x, y) != c {
			out = append(out, Directive{X: x, Y: y, Cell: c})
		}
	})
	return out
}

// Emit writes ds to sink as one batch and flushes once. With force the
// display is cleared and the style reset first.
func Emit(sink Sink, ds []Directive, force bool) error {
	if force {
		sink.ClearAll()
		sink.ResetStyle()
	}
	for _, d := range ds {
		sink.MoveTo(d.X, d.Y)
		sink.SetBackground(d.Cell.Bg)
		sink.SetForeground(d.Cell.Fg)
		sink.WriteGlyph(d.Cell.Glyph)
	}
	return sink.Flush()
}

// Render diffs cur against prev and emits the result. It returns the number
// of directives written.
func Render(sink Sink, prev, cur *grid.Grid, force bool) (int, error) {
	ds := Diff(prev, cur, force)
	return len(ds), Emit(sink, ds, force)
}

// Apply replays directives onto g. Directives outside g are dropped.
func Apply(g *grid.Grid, ds []Directive) {
	for _, d := range ds {
		g.Set(d.X, d.Y, d.Cell)
	}
}
