package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/fireworks/internal/grid"
)

// Presenter draws frames onto a sink, diffing each against the one before.
type Presenter struct {
	Sink          Sink
	Columns, Rows int
	Log           *zap.SugaredLogger
	// OnFrame, when set, is called after every successful flush with the
	// number of directives written.
	OnFrame func(directives int)
	// Recycle, when set, receives each grid once it is no longer needed
	// for diffing.
	Recycle func(g *grid.Grid)
}

// Run starts with a forced draw of a blank grid, then presents frames until
// the channel is closed. A sink failure stops presentation and is returned;
// it is not retried. After ctx is cancelled the remaining frames are
// drained without drawing.
func (p *Presenter) Run(ctx context.Context, frames <-chan Frame) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	prev := grid.New(p.Columns, p.Rows)
	if _, err := Render(p.Sink, nil, prev, true); err != nil {
		return fmt.Errorf("render: initial draw: %w", err)
	}

	index := 0
	for f := range frames {
		index++
		if ctx.Err() != nil || f.Grid == nil {
			continue
		}
		n, err := Render(p.Sink, prev, f.Grid, f.Force)
		if err != nil {
			log.Errorw("flush failed", "frame", index, "error", err)
			go drain(frames)
			return fmt.Errorf("render: frame %d: %w", index, err)
		}
		if f.Force {
			log.Debugw("full redraw", "frame", index, "directives", n)
		}
		if p.OnFrame != nil {
			p.OnFrame(n)
		}
		if p.Recycle != nil {
			p.Recycle(prev)
		}
		prev = f.Grid
	}
	log.Debugw("presenter done", "frames", index)
	return nil
}

// drain discards frames so the producer side can finish and close.
func drain(frames <-chan Frame) {
	for range frames {
	}
}
