package sim

import (
	"sync"

	"github.com/san-kum/fireworks/internal/grid"
)

// GridPool recycles frame grids between the simulation and the presenter.
type GridPool struct {
	pool          sync.Pool
	columns, rows int
}

func NewGridPool(columns, rows int) *GridPool {
	return &GridPool{
		columns: columns,
		rows:    rows,
		pool: sync.Pool{
			New: func() interface{} {
				return grid.New(columns, rows)
			},
		},
	}
}

// Get returns a blank grid.
func (p *GridPool) Get() *grid.Grid {
	return p.pool.Get().(*grid.Grid)
}

// Put hands back a grid nobody references any more. Grids of the wrong
// size are dropped.
func (p *GridPool) Put(g *grid.Grid) {
	if g == nil || g.Columns != p.columns || g.Rows != p.rows {
		return
	}
	g.Reset()
	p.pool.Put(g)
}

// FrameFrom draws the simulator's state onto a pooled grid.
func (p *GridPool) FrameFrom(s *Simulator) *grid.Grid {
	g := p.Get()
	s.Draw(g)
	return g
}
