// Package overlay draws boxed text windows on top of a finished frame.
package overlay

import (
	"unicode/utf8"

	"github.com/san-kum/fireworks/internal/grid"
)

// Size returns the outer width and height of a window holding lines: the
// longest line plus a border and one cell of padding on each side.
func Size(lines []string) (int, int) {
	widest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > widest {
			widest = n
		}
	}
	return widest + 4, len(lines) + 4
}

// DrawWindow paints a bordered box with its top-left corner at (x, y) and
// writes lines inside it. Anything past the grid edge is clipped.
func DrawWindow(g *grid.Grid, x, y int, lines []string, fg, bg grid.Color) {
	w, h := Size(lines)
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			g.Set(x+lx, y+ly, grid.Cell{Glyph: border(lx, ly, w, h), Fg: fg, Bg: bg})
		}
	}
	for i, line := range lines {
		col := 0
		for _, r := range line {
			g.SetGlyph(x+2+col, y+2+i, r)
			col++
		}
	}
}

func border(lx, ly, w, h int) rune {
	left, right := lx == 0, lx == w-1
	top, bottom := ly == 0, ly == h-1
	switch {
	case left && top, right && bottom:
		return '/'
	case left && bottom, right && top:
		return '\\'
	case left, right:
		return '|'
	case top, bottom:
		return '-'
	}
	return ' '
}

// Centered draws the window in the middle of g.
func Centered(g *grid.Grid, lines []string, fg, bg grid.Color) {
	w, h := Size(lines)
	DrawWindow(g, (g.Columns-w)/2, (g.Rows-h)/2, lines, fg, bg)
}
