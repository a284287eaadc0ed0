package render_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/render"
)

func randomGrid(rng *rand.Rand, cols, rows int, density float64) *grid.Grid {
	g := grid.New(cols, rows)
	glyphs := []rune{'-', '\\', '|', '/', '∙'}
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			if rng.Float64() < density {
				g.Set(x, y, grid.Cell{
					Glyph: glyphs[rng.Intn(len(glyphs))],
					Fg:    grid.Color(rng.Intn(grid.NumColors)),
					Bg:    grid.Color(rng.Intn(grid.NumColors)),
				})
			}
		}
	}
	return g
}

var _ = Describe("Diff", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("emits nothing for identical grids", func() {
		g := randomGrid(rng, 24, 13, 0.3)
		Expect(render.Diff(g, g.Clone(), false)).To(BeEmpty())
	})

	It("is idempotent once the previous frame is current", func() {
		prev := randomGrid(rng, 24, 13, 0.3)
		cur := randomGrid(rng, 24, 13, 0.3)
		Expect(render.Diff(prev, cur, false)).NotTo(BeEmpty())
		Expect(render.Diff(cur, cur, false)).To(BeEmpty())
	})

	It("reproduces the current grid when applied to the previous one", func() {
		for i := 0; i < 20; i++ {
			prev := randomGrid(rng, 30, 17, 0.2)
			cur := randomGrid(rng, 30, 17, 0.2)
			replay := prev.Clone()
			render.Apply(replay, render.Diff(prev, cur, false))
			Expect(replay.Equal(cur)).To(BeTrue())
		}
	})

	It("lists only changed cells in column-then-row order", func() {
		prev := grid.New(4, 3)
		cur := prev.Clone()
		cur.Set(2, 0, grid.Cell{Glyph: '|', Fg: grid.Red, Bg: grid.Black})
		cur.Set(0, 2, grid.Cell{Glyph: ' ', Fg: grid.White, Bg: grid.DarkBlue})
		cur.Set(0, 1, grid.Cell{Glyph: ' ', Fg: grid.Grey, Bg: grid.Black})

		ds := render.Diff(prev, cur, false)
		Expect(ds).To(HaveLen(3))
		Expect([][2]int{{ds[0].X, ds[0].Y}, {ds[1].X, ds[1].Y}, {ds[2].X, ds[2].Y}}).
			To(Equal([][2]int{{0, 1}, {0, 2}, {2, 0}}))
	})

	It("detects a change in any single field", func() {
		base := grid.Cell{Glyph: '-', Fg: grid.Red, Bg: grid.Black}
		for _, changed := range []grid.Cell{
			{Glyph: '|', Fg: grid.Red, Bg: grid.Black},
			{Glyph: '-', Fg: grid.Green, Bg: grid.Black},
			{Glyph: '-', Fg: grid.Red, Bg: grid.DarkRed},
		} {
			prev, cur := grid.New(1, 1), grid.New(1, 1)
			prev.Set(0, 0, base)
			cur.Set(0, 0, changed)
			Expect(render.Diff(prev, cur, false)).To(HaveLen(1))
		}
	})

	It("lists every cell when forced or when sizes differ", func() {
		g := grid.New(5, 4)
		Expect(render.Diff(g, g, true)).To(HaveLen(20))
		Expect(render.Diff(grid.New(2, 2), g, false)).To(HaveLen(20))
		Expect(render.Diff(nil, g, false)).To(HaveLen(20))
	})
})

var _ = Describe("Emit", func() {
	It("clears and resets before a forced batch and flushes once", func() {
		rec := render.NewRecorder(3, 2)
		cur := grid.New(3, 2)
		cur.Set(1, 1, grid.Cell{Glyph: '/', Fg: grid.Yellow, Bg: grid.DarkCyan})

		n, err := render.Render(rec, nil, cur, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(6))
		Expect(rec.Calls[0].Op).To(Equal(render.OpClear))
		Expect(rec.Calls[1].Op).To(Equal(render.OpReset))
		Expect(rec.Calls[len(rec.Calls)-1].Op).To(Equal(render.OpFlush))
		Expect(rec.Flushes).To(Equal(1))
		Expect(rec.Count(render.OpGlyph)).To(Equal(6))
		Expect(rec.Screen().Equal(cur)).To(BeTrue())
	})

	It("writes move, background, foreground, glyph for each directive", func() {
		rec := render.NewRecorder(2, 2)
		d := render.Directive{X: 1, Y: 0, Cell: grid.Cell{Glyph: '-', Fg: grid.Magenta, Bg: grid.DarkGreen}}

		Expect(render.Emit(rec, []render.Directive{d}, false)).To(Succeed())
		Expect(rec.Calls).To(Equal([]render.Call{
			{Op: render.OpMove, X: 1, Y: 0},
			{Op: render.OpBackground, Color: grid.DarkGreen},
			{Op: render.OpForeground, Color: grid.Magenta},
			{Op: render.OpGlyph, Glyph: '-'},
			{Op: render.OpFlush},
		}))
	})

	It("flushes an empty batch without clearing", func() {
		rec := render.NewRecorder(2, 2)
		g := grid.New(2, 2)
		n, err := render.Render(rec, g, g.Clone(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(rec.Calls).To(Equal([]render.Call{{Op: render.OpFlush}}))
	})

	It("returns the sink's flush error", func() {
		rec := render.NewRecorder(1, 1)
		rec.Err = errors.New("broken pipe")
		_, err := render.Render(rec, nil, grid.New(1, 1), true)
		Expect(err).To(MatchError("broken pipe"))
	})
})

var _ = Describe("ANSI", func() {
	It("encodes position and colours as escape sequences", func() {
		var buf bytes.Buffer
		sink := render.NewANSI(&buf)
		d := render.Directive{X: 4, Y: 2, Cell: grid.Cell{Glyph: '∙', Fg: grid.Red, Bg: grid.DarkBlue}}

		Expect(render.Emit(sink, []render.Directive{d}, false)).To(Succeed())
		Expect(buf.String()).To(Equal("\x1b[3;5H\x1b[44m\x1b[91m∙"))
	})

	It("skips repeated colours and contiguous moves", func() {
		var buf bytes.Buffer
		sink := render.NewANSI(&buf)
		cell := grid.Cell{Glyph: 'x', Fg: grid.White, Bg: grid.Black}
		ds := []render.Directive{{X: 0, Y: 0, Cell: cell}, {X: 1, Y: 0, Cell: cell}}

		Expect(render.Emit(sink, ds, false)).To(Succeed())
		Expect(buf.String()).To(Equal("\x1b[1;1H\x1b[40m\x1b[97mxx"))
	})

	It("buffers until flush", func() {
		var buf bytes.Buffer
		sink := render.NewANSI(&buf)
		sink.MoveTo(0, 0)
		sink.WriteGlyph('a')
		Expect(buf.Len()).To(BeZero())
		Expect(sink.Flush()).To(Succeed())
		Expect(buf.String()).To(Equal("\x1b[1;1Ha"))
	})

	It("maps every colour to a distinct SGR code", func() {
		seen := map[int]bool{}
		for c := grid.Color(0); c < grid.NumColors; c++ {
			code := render.SGR(c, false)
			Expect(seen).NotTo(HaveKey(code))
			seen[code] = true
			Expect(render.SGR(c, true)).To(Equal(code + 10))
		}
	})

	It("surfaces writer failures from Flush", func() {
		sink := render.NewANSI(failingWriter{})
		sink.WriteGlyph('x')
		Expect(sink.Flush()).To(HaveOccurred())
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

var _ = Describe("Queue", func() {
	It("delivers frames in order and closes after draining", func() {
		q := render.NewQueue()
		for i := 1; i <= 50; i++ {
			q.Push(render.Frame{Grid: grid.New(i, 1)})
		}
		q.Close()

		var got []int
		for f := range q.Out() {
			got = append(got, f.Grid.Columns)
		}
		Expect(got).To(HaveLen(50))
		for i, cols := range got {
			Expect(cols).To(Equal(i + 1))
		}
	})

	It("does not block the producer on a slow consumer", func() {
		q := render.NewQueue()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 1000; i++ {
				q.Push(render.Frame{})
			}
			q.Close()
		}()
		Eventually(done, time.Second).Should(BeClosed())

		n := 0
		for range q.Out() {
			n++
		}
		Expect(n).To(Equal(1000))
	})

	It("tolerates repeated Close", func() {
		q := render.NewQueue()
		q.Close()
		q.Close()
		Eventually(q.Out()).Should(BeClosed())
	})
})

var _ = Describe("Presenter", func() {
	It("draws a blank screen first and then each frame", func() {
		rec := render.NewRecorder(4, 4)
		var counts []int
		p := &render.Presenter{Sink: rec, Columns: 4, Rows: 4, OnFrame: func(n int) { counts = append(counts, n) }}

		first := grid.New(4, 4)
		first.Set(1, 1, grid.Cell{Glyph: '|', Fg: grid.Green, Bg: grid.Black})
		second := first.Clone()
		second.Set(2, 3, grid.Cell{Glyph: '-', Fg: grid.Cyan, Bg: grid.DarkCyan})

		frames := make(chan render.Frame, 3)
		frames <- render.Frame{Grid: first}
		frames <- render.Frame{Grid: second}
		frames <- render.Frame{Grid: second.Clone()}
		close(frames)

		Expect(p.Run(context.Background(), frames)).To(Succeed())
		Expect(rec.Count(render.OpClear)).To(Equal(1))
		Expect(rec.Flushes).To(Equal(4))
		Expect(counts).To(Equal([]int{1, 1, 0}))
		Expect(rec.Screen().Equal(second)).To(BeTrue())
	})

	It("redraws everything on a forced frame", func() {
		rec := render.NewRecorder(3, 3)
		p := &render.Presenter{Sink: rec, Columns: 3, Rows: 3}
		frames := make(chan render.Frame, 1)
		frames <- render.Frame{Grid: grid.New(3, 3), Force: true}
		close(frames)

		Expect(p.Run(context.Background(), frames)).To(Succeed())
		Expect(rec.Count(render.OpClear)).To(Equal(2))
		Expect(rec.Count(render.OpGlyph)).To(Equal(18))
	})

	It("stops on a sink failure and names the frame", func() {
		sink := &flakySink{Recorder: render.NewRecorder(2, 2), failAt: 2}
		p := &render.Presenter{Sink: sink, Columns: 2, Rows: 2}
		q := render.NewQueue()
		for i := 0; i < 3; i++ {
			g := grid.New(2, 2)
			g.Set(0, 0, grid.Cell{Glyph: '/', Fg: grid.Color(i + 4), Bg: grid.Black})
			q.Push(render.Frame{Grid: g})
		}
		q.Close()

		err := p.Run(context.Background(), q.Out())
		Expect(err).To(MatchError(ContainSubstring("frame 1: broken pipe")))
		Expect(sink.Flushes).To(Equal(2))
	})

	It("skips drawing once the context is cancelled", func() {
		rec := render.NewRecorder(2, 2)
		p := &render.Presenter{Sink: rec, Columns: 2, Rows: 2}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		frames := make(chan render.Frame, 2)
		frames <- render.Frame{Grid: grid.New(2, 2), Force: true}
		frames <- render.Frame{Grid: grid.New(2, 2), Force: true}
		close(frames)

		Expect(p.Run(ctx, frames)).To(Succeed())
		Expect(rec.Flushes).To(Equal(1))
	})
})

type flakySink struct {
	*render.Recorder
	failAt int
}

func (s *flakySink) Flush() error {
	s.Recorder.Flush()
	if s.Flushes >= s.failAt {
		return errors.New("broken pipe")
	}
	return nil
}
