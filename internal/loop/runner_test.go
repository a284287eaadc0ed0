package loop

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/sim"
	"github.com/san-kum/fireworks/internal/smoke"
)

func testSim(auto bool) *sim.Simulator {
	p := sim.Params{
		Columns: 40,
		Rows:    20,
		Physics: particle.Physics{Gravity: particle.Vec2{Y: 8}, EmissionPower: 0.4},
		Smoke:   smoke.Params{MaxDensity: 8, DissipationRate: 0.5, ProbabilityNorm: 0.25},

		BlurSpeed:      16,
		ColourFlicker:  true,
		DensityFlicker: true,
		Launch: particle.Launch{
			XMin: 0.4, XMax: 0.6, TargetJitter: 0.2,
			SpeedMin: 16, SpeedMax: 24, FuseMin: 0.5, FuseMax: 1,
			EmissionMin: 2, EmissionMax: 4,
			GlitterMin: 8, GlitterMax: 16,
			GlitterEmissionMin: 4, GlitterEmissionMax: 8,
			GlitterSpeed:       8,
			GlitterLifetimeMin: 0.5, GlitterLifetimeMax: 1,
		},
		AutoLaunch:     auto,
		LaunchInterval: 1,
		BonusLaunches:  2,
	}
	return sim.New(p, rand.New(rand.NewSource(1)))
}

type tickCounter struct{ n int }

func (c *tickCounter) OnStep(sim.Sample) { c.n++ }

func TestQuitEndsLoop(t *testing.T) {
	s := testSim(true)
	counter := &tickCounter{}
	s.AddObserver(counter)
	rec := render.NewRecorder(40, 20)

	r := &Runner{
		Sim:     s,
		Sink:    rec,
		Input:   control.NewScripted(map[int][]control.Action{5: {control.Quit}}),
		FixedDt: 0.05,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if r.Ticks() != 5 {
		t.Errorf("expected 5 ticks before quit, got %d", r.Ticks())
	}
	if rec.Flushes != 6 {
		t.Errorf("expected initial draw plus 5 frames, got %d flushes", rec.Flushes)
	}
	if counter.n != 5 {
		t.Errorf("observer saw %d ticks", counter.n)
	}
	if s.Launches() == 0 {
		t.Error("auto launch never fired")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	s := testSim(true)
	r := &Runner{
		Sim:      s,
		Sink:     render.NewRecorder(40, 20),
		Input:    control.NewScripted(map[int][]control.Action{0: {control.TogglePause}}),
		FixedDt:  0.1,
		MaxTicks: 10,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !r.Paused() {
		t.Error("runner should report paused")
	}
	if s.Clock() != 0 || s.Launches() != 0 {
		t.Errorf("paused simulation advanced: clock %v, launches %d", s.Clock(), s.Launches())
	}
	if r.Ticks() != 10 {
		t.Errorf("frames should still be produced while paused, got %d ticks", r.Ticks())
	}
}

func TestManualSpawn(t *testing.T) {
	s := testSim(false)
	r := &Runner{
		Sim:      s,
		Sink:     render.NewRecorder(40, 20),
		Input:    control.NewScripted(map[int][]control.Action{2: {control.Spawn, control.Spawn}}),
		FixedDt:  0.01,
		MaxTicks: 4,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Launches() != 2 {
		t.Errorf("expected 2 manual launches, got %d", s.Launches())
	}
}

func TestHelpOverlay(t *testing.T) {
	rec := render.NewRecorder(40, 20)
	r := &Runner{
		Sim:      testSim(false),
		Sink:     rec,
		Input:    control.NewScripted(map[int][]control.Action{0: {control.ToggleHelp}}),
		FixedDt:  0.01,
		MaxTicks: 1,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// The help text is 24 columns wide and 7 lines tall, centred on 40x20.
	if got := rec.Screen().At(6, 4).Glyph; got != '/' {
		t.Errorf("expected window corner at (6,4), got %q", got)
	}
	if got := rec.Screen().At(8, 6).Glyph; got != 'f' {
		t.Errorf("expected help title at (8,6), got %q", got)
	}
}

func TestRedrawForcesFullFrame(t *testing.T) {
	rec := render.NewRecorder(40, 20)
	r := &Runner{
		Sim:      testSim(false),
		Sink:     rec,
		Input:    control.NewScripted(map[int][]control.Action{1: {control.Redraw}}),
		FixedDt:  0.01,
		MaxTicks: 3,
		Pool:     sim.NewGridPool(40, 20),
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := rec.Count(render.OpClear); got != 2 {
		t.Errorf("expected initial and forced clear, got %d", got)
	}
	if got := rec.Count(render.OpGlyph); got != 2*40*20 {
		t.Errorf("expected two full frames of glyphs, got %d", got)
	}
}

type flakySink struct {
	*render.Recorder
	failAt int
}

var errBrokenPipe = errors.New("broken pipe")

func (s *flakySink) Flush() error {
	s.Recorder.Flush()
	if s.Flushes >= s.failAt {
		return errBrokenPipe
	}
	return nil
}

func TestSinkFailureStopsLoop(t *testing.T) {
	r := &Runner{
		Sim:       testSim(true),
		Sink:      &flakySink{Recorder: render.NewRecorder(40, 20), failAt: 3},
		Input:     control.NewScripted(nil),
		FixedDt:   0.01,
		TickSleep: time.Millisecond,
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, errBrokenPipe) {
			t.Errorf("expected broken pipe, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after the sink failed")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Sim: testSim(true), Sink: render.NewRecorder(40, 20)}
	if err := r.Run(ctx); err != nil {
		t.Errorf("cancelled run should stop quietly, got %v", err)
	}
	if r.Ticks() != 0 {
		t.Errorf("expected no ticks, got %d", r.Ticks())
	}
}
