package grid

import "math"

// Color is one of the 16 concrete terminal colours a cell can show.
type Color uint8

const (
	Black Color = iota
	DarkGrey
	Grey
	White
	DarkRed
	Red
	DarkYellow
	Yellow
	DarkGreen
	Green
	DarkCyan
	Cyan
	DarkBlue
	Blue
	DarkMagenta
	Magenta
)

// NumColors is the size of the concrete palette.
const NumColors = 16

var colorNames = [NumColors]string{
	"black", "dark_grey", "grey", "white",
	"dark_red", "red", "dark_yellow", "yellow",
	"dark_green", "green", "dark_cyan", "cyan",
	"dark_blue", "blue", "dark_magenta", "magenta",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "invalid"
}

// Cell is a single displayed character.
type Cell struct {
	Glyph rune
	Fg    Color
	Bg    Color
}

// Blank is the content of every cell of a fresh grid.
var Blank = Cell{Glyph: ' ', Fg: White, Bg: Black}

type Grid struct {
	Columns, Rows int
	cells         []Cell
}

// New allocates a grid filled with Blank cells.
func New(columns, rows int) *Grid {
	if columns < 0 {
		columns = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{
		Columns: columns,
		Rows:    rows,
		cells:   make([]Cell, columns*rows),
	}
	for i := range g.cells {
		g.cells[i] = Blank
	}
	return g
}

// Reset fills every cell with Blank.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Blank
	}
}

func (g *Grid) index(x, y int) int { return x*g.Rows + y }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Columns && y >= 0 && y < g.Rows
}

// At returns the cell at (x, y). Out of range coordinates yield Blank.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Blank
	}
	return g.cells[g.index(x, y)]
}

// Set overwrites the cell at (x, y); out of range writes are dropped.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.index(x, y)] = c
}

// SetBackground replaces only the background colour at (x, y).
func (g *Grid) SetBackground(x, y int, bg Color) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.index(x, y)].Bg = bg
}

// SetGlyph replaces only the glyph at (x, y).
func (g *Grid) SetGlyph(x, y int, r rune) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[g.index(x, y)].Glyph = r
}

// Cells calls fn for every cell, column by column and top to bottom
// within a column.
func (g *Grid) Cells(fn func(x, y int, c Cell)) {
	i := 0
	for x := 0; x < g.Columns; x++ {
		for y := 0; y < g.Rows; y++ {
			fn(x, y, g.cells[i])
			i++
		}
	}
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Columns: g.Columns, Rows: g.Rows, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and identical cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Columns != other.Columns || g.Rows != other.Rows {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// CellOf maps a continuous position to the cell containing it. Coordinates
// are truncated toward zero, matching a plain float to int conversion.
func CellOf(x, y float64, columns, rows int) (int, int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	// Reject values an int conversion could not represent.
	if x <= -1 || y <= -1 || x >= float64(columns) || y >= float64(rows) {
		return 0, 0, false
	}
	cx, cy := int(x), int(y)
	if cx < 0 || cx >= columns || cy < 0 || cy >= rows {
		return 0, 0, false
	}
	return cx, cy, true
}
