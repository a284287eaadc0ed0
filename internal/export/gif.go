package export

import (
	"errors"
	"image"
	"image/gif"
	"io"

	"github.com/san-kum/fireworks/internal/grid"
)

var ErrNoFrames = errors.New("export: no frames recorded")

// GIFRecorder is a render.Sink that rasterises every flushed screen into a
// paletted frame. Each cell becomes Scale x 2*Scale pixels.
type GIFRecorder struct {
	Scale int
	// Delay between frames in hundredths of a second.
	Delay int
	// FrameEvery keeps one flush in n.
	FrameEvery int
	// MaxFrames caps the recording; later flushes are counted as dropped.
	MaxFrames int

	screen  *grid.Grid
	x, y    int
	fg, bg  grid.Color
	flushes int
	dropped int
	frames  []*image.Paletted
	delays  []int
}

func NewGIFRecorder(columns, rows, scale int) *GIFRecorder {
	if scale < 1 {
		scale = 1
	}
	return &GIFRecorder{
		Scale:      scale,
		Delay:      5,
		FrameEvery: 1,
		screen:     grid.New(columns, rows),
		fg:         grid.White,
		bg:         grid.Black,
	}
}

func (r *GIFRecorder) ClearAll() {
	r.screen.Reset()
}

func (r *GIFRecorder) ResetStyle() {
	r.fg, r.bg = grid.White, grid.Black
}

func (r *GIFRecorder) MoveTo(x, y int) { r.x, r.y = x, y }

func (r *GIFRecorder) SetBackground(c grid.Color) { r.bg = c }
func (r *GIFRecorder) SetForeground(c grid.Color) { r.fg = c }

func (r *GIFRecorder) WriteGlyph(g rune) {
	r.screen.Set(r.x, r.y, grid.Cell{Glyph: g, Fg: r.fg, Bg: r.bg})
	r.x++
}

func (r *GIFRecorder) Flush() error {
	r.flushes++
	every := r.FrameEvery
	if every < 1 {
		every = 1
	}
	if (r.flushes-1)%every != 0 {
		return nil
	}
	if r.MaxFrames > 0 && len(r.frames) >= r.MaxFrames {
		r.dropped++
		return nil
	}
	r.frames = append(r.frames, r.Rasterize())
	r.delays = append(r.delays, r.Delay)
	return nil
}

func (r *GIFRecorder) Frames() int  { return len(r.frames) }
func (r *GIFRecorder) Dropped() int { return r.dropped }

// Rasterize paints the current screen.
func (r *GIFRecorder) Rasterize() *image.Paletted {
	cw, ch := r.Scale, r.Scale*2
	img := image.NewPaletted(image.Rect(0, 0, r.screen.Columns*cw, r.screen.Rows*ch), Palette())
	r.screen.Cells(func(x, y int, c grid.Cell) {
		ox, oy := x*cw, y*ch
		for py := 0; py < ch; py++ {
			for px := 0; px < cw; px++ {
				idx := uint8(c.Bg)
				if glyphCovers(c.Glyph, px, py, cw, ch) {
					idx = uint8(c.Fg)
				}
				img.SetColorIndex(ox+px, oy+py, idx)
			}
		}
	})
	return img
}

// Save encodes the recorded frames as a looping animated GIF.
func (r *GIFRecorder) Save(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(w, &gif.GIF{
		Image:     r.frames,
		Delay:     r.delays,
		LoopCount: 0,
	})
}

// glyphCovers reports whether pixel (px, py) of a cw x ch cell is inked by
// glyph g. Streak glyphs are drawn as strokes; any other visible rune
// fills a centred block.
func glyphCovers(g rune, px, py, cw, ch int) bool {
	// Centred coordinates scaled to [-1, 1].
	fx := (2*float64(px)+1)/float64(cw) - 1
	fy := (2*float64(py)+1)/float64(ch) - 1
	const thin = 0.35
	switch g {
	case ' ', 0:
		return false
	case '∙':
		return fx*fx+fy*fy <= 0.2
	case '-':
		return abs(fy) <= thin/2
	case '|':
		return abs(fx) <= thin
	case '\\':
		return abs(fx-fy) <= thin
	case '/':
		return abs(fx+fy) <= thin
	default:
		return abs(fx) <= 0.6 && abs(fy) <= 0.6
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
