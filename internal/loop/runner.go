// Package loop runs the live display: a simulation loop producing frames
// and a presenter drawing them, joined through an unbounded queue.
package loop

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/overlay"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/sim"
)

type Runner struct {
	Sim   *sim.Simulator
	Sink  render.Sink
	Input control.Source
	Log   *zap.SugaredLogger

	// TickSleep is slept after every tick.
	TickSleep time.Duration
	// FixedDt, when positive, replaces the measured wall-clock delta.
	FixedDt float64
	// MaxTicks stops the loop after that many ticks when positive.
	MaxTicks int
	// Pool, when set, recycles frame grids.
	Pool *sim.GridPool
	// Now defaults to time.Now.
	Now func() time.Time

	ticks      int
	paused     bool
	help       bool
	directives atomic.Int64
}

// Ticks reports how many ticks the last Run completed.
func (r *Runner) Ticks() int { return r.ticks }

// Paused reports whether the simulation was paused when Run returned.
func (r *Runner) Paused() bool { return r.paused }

// Run blocks until a quit action, ctx cancellation, MaxTicks or a
// presenter failure. The queue is closed and the presenter drained before
// Run returns, so the caller may restore the terminal right after.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := r.Sim.Params()

	q := render.NewQueue()
	presenter := &render.Presenter{
		Sink:    r.Sink,
		Columns: p.Columns,
		Rows:    p.Rows,
		Log:     log,
		OnFrame: func(n int) { r.directives.Store(int64(n)) },
	}
	if r.Pool != nil {
		presenter.Recycle = r.Pool.Put
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return presenter.Run(gctx, q.Out())
	})
	g.Go(func() error {
		defer q.Close()
		return r.simulate(gctx, q, log)
	})

	err := g.Wait()
	log.Infow("loop stopped", "ticks", r.ticks, "launches", r.Sim.Launches(), "error", err)
	return err
}

func (r *Runner) simulate(ctx context.Context, q *render.Queue, log *zap.SugaredLogger) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}

	r.ticks = 0
	force := false
	last := now()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if r.MaxTicks > 0 && r.ticks >= r.MaxTicks {
			return nil
		}

		if r.Input != nil {
			for _, a := range r.Input.Poll() {
				switch a {
				case control.Quit:
					log.Debugw("quit requested", "tick", r.ticks)
					return nil
				case control.TogglePause:
					r.paused = !r.paused
				case control.ToggleHelp:
					r.help = !r.help
				case control.Spawn:
					r.Sim.SpawnFirework()
				case control.Redraw:
					force = true
				}
			}
		}

		t := now()
		dt := t.Sub(last).Seconds()
		last = t
		if r.FixedDt > 0 {
			dt = r.FixedDt
		}
		if !r.paused {
			r.Sim.Step(dt)
		}

		frame := r.frame()
		if r.help {
			overlay.Centered(frame, control.Help(), grid.White, grid.Black)
		}
		q.Push(render.Frame{Grid: frame, Force: force})
		force = false
		r.ticks++

		r.Sim.Observe(r.Sim.Sample(int(r.directives.Load())))

		if r.TickSleep > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.TickSleep):
			}
		}
	}
}

func (r *Runner) frame() *grid.Grid {
	if r.Pool != nil {
		return r.Pool.FrameFrom(r.Sim)
	}
	return r.Sim.Frame()
}
