package render

import (
	"bufio"
	"io"
	"strconv"

	"github.com/san-kum/fireworks/internal/grid"
)

var (
	csi        = []byte("\x1b[")
	csiSGR0    = []byte("\x1b[0m")
	csiClear   = []byte("\x1b[2J\x1b[H")
	csiHideCur = []byte("\x1b[?25l")
	csiShowCur = []byte("\x1b[?25h")
	csiAltOn   = []byte("\x1b[?1049h")
	csiAltOff  = []byte("\x1b[?1049l")
)

// sgrFg holds the foreground SGR code of each grid colour. Background codes
// are the same plus 10.
var sgrFg = [grid.NumColors]int{
	grid.Black:       30,
	grid.DarkGrey:    90,
	grid.Grey:        37,
	grid.White:       97,
	grid.DarkRed:     31,
	grid.Red:         91,
	grid.DarkYellow:  33,
	grid.Yellow:      93,
	grid.DarkGreen:   32,
	grid.Green:       92,
	grid.DarkCyan:    36,
	grid.Cyan:        96,
	grid.DarkBlue:    34,
	grid.Blue:        94,
	grid.DarkMagenta: 35,
	grid.Magenta:     95,
}

// SGR returns the select-graphic-rendition code for c.
func SGR(c grid.Color, background bool) int {
	code := 39
	if int(c) < len(sgrFg) {
		code = sgrFg[c]
	}
	if background {
		code += 10
	}
	return code
}

// ANSI is a Sink writing escape sequences for a 16-colour terminal. Output
// is buffered until Flush.
type ANSI struct {
	w *bufio.Writer

	// Cursor and colour state of the terminal, used to skip redundant
	// escapes. Invalidated by ClearAll and ResetStyle.
	x, y     int
	fg, bg   grid.Color
	posValid bool
	fgValid  bool
	bgValid  bool
}

func NewANSI(w io.Writer) *ANSI {
	return &ANSI{w: bufio.NewWriterSize(w, 128*1024)}
}

// Enter switches to the alternate screen and hides the cursor.
func (a *ANSI) Enter() error {
	a.w.Write(csiAltOn)
	a.w.Write(csiHideCur)
	return a.w.Flush()
}

// Leave restores the normal screen.
func (a *ANSI) Leave() error {
	a.w.Write(csiSGR0)
	a.w.Write(csiShowCur)
	a.w.Write(csiAltOff)
	return a.w.Flush()
}

func (a *ANSI) ClearAll() {
	a.w.Write(csiClear)
	a.posValid = false
}

func (a *ANSI) ResetStyle() {
	a.w.Write(csiSGR0)
	a.fgValid, a.bgValid = false, false
}

func (a *ANSI) MoveTo(x, y int) {
	if a.posValid && x == a.x && y == a.y {
		return
	}
	a.w.Write(csi)
	a.writeInt(y + 1)
	a.w.WriteByte(';')
	a.writeInt(x + 1)
	a.w.WriteByte('H')
	a.x, a.y = x, y
	a.posValid = true
}

func (a *ANSI) SetBackground(c grid.Color) {
	if a.bgValid && c == a.bg {
		return
	}
	a.writeSGR(SGR(c, true))
	a.bg, a.bgValid = c, true
}

func (a *ANSI) SetForeground(c grid.Color) {
	if a.fgValid && c == a.fg {
		return
	}
	a.writeSGR(SGR(c, false))
	a.fg, a.fgValid = c, true
}

func (a *ANSI) WriteGlyph(r rune) {
	if r < 0x80 {
		a.w.WriteByte(byte(r))
	} else {
		a.w.WriteRune(r)
	}
	// Every glyph in the palette is one column wide.
	a.x++
}

// Flush pushes the buffered batch to the writer. A write failure on the
// underlying writer surfaces here.
func (a *ANSI) Flush() error {
	return a.w.Flush()
}

func (a *ANSI) writeSGR(code int) {
	a.w.Write(csi)
	a.writeInt(code)
	a.w.WriteByte('m')
}

func (a *ANSI) writeInt(n int) {
	var buf [8]byte
	a.w.Write(strconv.AppendInt(buf[:0], int64(n), 10))
}
