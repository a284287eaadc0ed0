package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/fireworks/internal/grid"
)

// GridToSVG draws g with cells of scale x 2*scale pixels: one rect per
// non-black background and one text element per visible glyph.
func GridToSVG(g *grid.Grid, scale float64) string {
	if g == nil {
		return ""
	}
	if scale <= 0 {
		scale = 8
	}

	cw, ch := scale, scale*2
	width := float64(g.Columns) * cw
	height := float64(g.Rows) * ch

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, Hex(grid.Black)))

	var glyphs strings.Builder
	g.Cells(func(x, y int, c grid.Cell) {
		px, py := float64(x)*cw, float64(y)*ch
		if c.Bg != grid.Black {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, px, py, cw, ch, Hex(c.Bg)))
		}
		if c.Glyph != ' ' && c.Glyph != 0 {
			glyphs.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, px+cw/2, py+ch*0.75, Hex(c.Fg), html.EscapeString(string(c.Glyph))))
		}
	})

	if glyphs.Len() > 0 {
		sb.WriteString(fmt.Sprintf(`<g font-family="monospace" font-size="%.1f" text-anchor="middle">
`, ch*0.8))
		sb.WriteString(glyphs.String())
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots ys as a polyline over evenly spaced x positions.
func SeriesToSVG(ys []float64, width, height int, strokeColor string) string {
	if len(ys) < 2 {
		return ""
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(ys)-1)
	for i, v := range ys {
		x := float64(i) * step
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
