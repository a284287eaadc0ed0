package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fireworks/internal/export"
	"github.com/san-kum/fireworks/internal/grid"
)

type styleKey struct{ fg, bg grid.Color }

// Painter turns grids into styled text. Styles are built once per colour
// pair.
type Painter struct {
	styles map[styleKey]lipgloss.Style
}

func NewPainter() *Painter {
	return &Painter{styles: make(map[styleKey]lipgloss.Style)}
}

func (p *Painter) style(fg, bg grid.Color) lipgloss.Style {
	key := styleKey{fg, bg}
	if s, ok := p.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(export.Hex(fg))).
		Background(lipgloss.Color(export.Hex(bg)))
	p.styles[key] = s
	return s
}

// Render draws at most maxCols x maxRows cells of g, row by row. Adjacent
// cells sharing colours are styled as one run. Non-positive limits mean the
// full grid.
func (p *Painter) Render(g *grid.Grid, maxCols, maxRows int) string {
	if g == nil {
		return ""
	}
	cols, rows := g.Columns, g.Rows
	if maxCols > 0 && maxCols < cols {
		cols = maxCols
	}
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}

	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		cur := g.At(0, y)
		run.Reset()
		for x := 0; x < cols; x++ {
			c := g.At(x, y)
			if c.Fg != cur.Fg || c.Bg != cur.Bg {
				sb.WriteString(p.style(cur.Fg, cur.Bg).Render(run.String()))
				run.Reset()
				cur = c
			}
			run.WriteRune(c.Glyph)
		}
		sb.WriteString(p.style(cur.Fg, cur.Bg).Render(run.String()))
	}
	return sb.String()
}
