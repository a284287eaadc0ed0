package render

import (
	"github.com/san-kum/fireworks/internal/grid"
)

// Op names a Sink call captured by a Recorder.
type Op uint8

const (
	OpClear Op = iota
	OpReset
	OpMove
	OpBackground
	OpForeground
	OpGlyph
	OpFlush
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpReset:
		return "reset"
	case OpMove:
		return "move"
	case OpBackground:
		return "bg"
	case OpForeground:
		return "fg"
	case OpGlyph:
		return "glyph"
	case OpFlush:
		return "flush"
	default:
		return "unknown"
	}
}

type Call struct {
	Op    Op
	X, Y  int
	Color grid.Color
	Glyph rune
}

// Recorder is an in-memory Sink. It keeps the raw call log and a screen
// model that the calls are painted onto, so tests can inspect either.
type Recorder struct {
	Calls   []Call
	Flushes int
	// Err, when set, is returned from every Flush.
	Err error

	screen *grid.Grid
	x, y   int
	fg, bg grid.Color
}

func NewRecorder(columns, rows int) *Recorder {
	return &Recorder{
		screen: grid.New(columns, rows),
		fg:     grid.White,
		bg:     grid.Black,
	}
}

// Screen is what a terminal would show after the calls so far.
func (r *Recorder) Screen() *grid.Grid { return r.screen }

func (r *Recorder) ClearAll() {
	r.Calls = append(r.Calls, Call{Op: OpClear})
	r.screen = grid.New(r.screen.Columns, r.screen.Rows)
}

func (r *Recorder) ResetStyle() {
	r.Calls = append(r.Calls, Call{Op: OpReset})
	r.fg, r.bg = grid.White, grid.Black
}

func (r *Recorder) MoveTo(x, y int) {
	r.Calls = append(r.Calls, Call{Op: OpMove, X: x, Y: y})
	r.x, r.y = x, y
}

func (r *Recorder) SetBackground(c grid.Color) {
	r.Calls = append(r.Calls, Call{Op: OpBackground, Color: c})
	r.bg = c
}

func (r *Recorder) SetForeground(c grid.Color) {
	r.Calls = append(r.Calls, Call{Op: OpForeground, Color: c})
	r.fg = c
}

func (r *Recorder) WriteGlyph(g rune) {
	r.Calls = append(r.Calls, Call{Op: OpGlyph, Glyph: g})
	r.screen.Set(r.x, r.y, grid.Cell{Glyph: g, Fg: r.fg, Bg: r.bg})
	r.x++
}

func (r *Recorder) Flush() error {
	r.Calls = append(r.Calls, Call{Op: OpFlush})
	r.Flushes++
	return r.Err
}

// Count returns how many calls of kind op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the call log but keeps the screen.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Flushes = 0
}
