package export

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fireworks/internal/grid"
)

// hexColors are the xterm defaults of the 16 terminal colours.
var hexColors = [grid.NumColors]string{
	grid.Black:       "#000000",
	grid.DarkGrey:    "#808080",
	grid.Grey:        "#c0c0c0",
	grid.White:       "#ffffff",
	grid.DarkRed:     "#800000",
	grid.Red:         "#ff0000",
	grid.DarkYellow:  "#808000",
	grid.Yellow:      "#ffff00",
	grid.DarkGreen:   "#008000",
	grid.Green:       "#00ff00",
	grid.DarkCyan:    "#008080",
	grid.Cyan:        "#00ffff",
	grid.DarkBlue:    "#000080",
	grid.Blue:        "#0000ff",
	grid.DarkMagenta: "#800080",
	grid.Magenta:     "#ff00ff",
}

var colors [grid.NumColors]colorful.Color

func init() {
	for i, h := range hexColors {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		colors[i] = c
	}
}

// Colorful returns the display colour of c. Unknown colours map to black.
func Colorful(c grid.Color) colorful.Color {
	if int(c) >= len(colors) {
		return colors[grid.Black]
	}
	return colors[c]
}

// Hex returns c as a #rrggbb string.
func Hex(c grid.Color) string { return Colorful(c).Hex() }

func RGBA(c grid.Color) color.RGBA {
	r, g, b := Colorful(c).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Palette is the GIF palette, indexed by grid.Color.
func Palette() color.Palette {
	p := make(color.Palette, grid.NumColors)
	for i := range p {
		p[i] = RGBA(grid.Color(i))
	}
	return p
}
