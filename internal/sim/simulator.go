// Package sim advances a fireworks display: particles, smoke, the launch
// timer and the simulation clock. A Simulator is not safe for concurrent use.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/scene"
	"github.com/san-kum/fireworks/internal/smoke"
)

type Simulator struct {
	params     Params
	rng        *rand.Rand
	system     *particle.System
	field      *smoke.Field
	compositor *scene.Compositor
	schedule   Schedule

	clock      time.Duration
	spawnTimer float64
	launches   int

	metrics   []Metric
	observers []Observer
}

func New(p Params, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		params:     p,
		rng:        rng,
		system:     particle.NewSystem(p.Columns, p.Rows, p.Physics, rng),
		field:      smoke.NewField(p.Columns, p.Rows, p.Smoke),
		compositor: scene.NewCompositor(p.BlurSpeed, p.ColourFlicker, p.DensityFlicker, rng),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetSchedule installs scripted launches consulted after every step.
func (s *Simulator) SetSchedule(sc Schedule) { s.schedule = sc }

func (s *Simulator) Params() Params                { return s.params }
func (s *Simulator) Clock() time.Duration          { return s.clock }
func (s *Simulator) Launches() int                 { return s.launches }
func (s *Simulator) Particles() int                { return s.system.Len() }
func (s *Simulator) System() *particle.System      { return s.system }
func (s *Simulator) Field() *smoke.Field           { return s.field }
func (s *Simulator) Compositor() *scene.Compositor { return s.compositor }

// Step advances everything by dt seconds: smoke decays, particles move and
// emit, the launch timer runs, then the clock advances. Negative or NaN dt
// is treated as zero. Step returns the number of particles ignited.
func (s *Simulator) Step(dt float64) int {
	if !(dt > 0) {
		dt = 0
	}

	s.field.Decay(dt)
	spawned := s.system.Update(dt, s.field)

	if s.params.AutoLaunch {
		s.spawnTimer -= dt
		if s.spawnTimer <= 0 {
			s.spawnTimer = s.params.LaunchInterval
			s.SpawnFirework()
			for i := 0; i < s.params.BonusLaunches; i++ {
				if s.rng.Float64() < s.params.BonusChance {
					s.SpawnFirework()
				}
			}
		}
	}

	s.clock = addSaturating(s.clock, dt)

	if s.schedule != nil {
		for _, l := range s.schedule.Due(s.clock.Seconds()) {
			s.Launch(l)
		}
	}
	return spawned
}

// addSaturating advances d by dt seconds, pinning at the largest Duration.
func addSaturating(d time.Duration, dt float64) time.Duration {
	ns := dt * float64(time.Second)
	if ns >= float64(math.MaxInt64-d) {
		return time.Duration(math.MaxInt64)
	}
	return d + time.Duration(ns)
}

// SpawnFirework launches one rocket with the configured launch parameters.
func (s *Simulator) SpawnFirework() { s.Launch(s.params.Launch) }

// Launch launches one rocket with l.
func (s *Simulator) Launch(l particle.Launch) {
	s.system.SpawnFirework(l)
	s.launches++
}

// Draw composites the current state onto g.
func (s *Simulator) Draw(g *grid.Grid) {
	s.compositor.Draw(g, s.system.Particles(), s.field)
}

// Frame returns a fresh grid with the current state drawn on it.
func (s *Simulator) Frame() *grid.Grid {
	g := grid.New(s.params.Columns, s.params.Rows)
	s.Draw(g)
	return g
}

// Sample summarises the current state. directives is supplied by the
// caller since only it knows what was rendered.
func (s *Simulator) Sample(directives int) Sample {
	return Sample{
		Time:       s.clock.Seconds(),
		Particles:  s.system.Len(),
		Payload:    s.system.Payload(),
		Smoke:      s.field.Mass(),
		Directives: directives,
		Launches:   s.launches,
	}
}

// Observe feeds a sample to every metric and observer.
func (s *Simulator) Observe(sm Sample) {
	for _, m := range s.metrics {
		m.Observe(sm)
	}
	for _, o := range s.observers {
		o.OnStep(sm)
	}
}

// Reset clears particles, smoke, clock and timer. Metrics are kept.
func (s *Simulator) Reset() {
	s.system.Reset()
	s.field.Reset()
	s.clock = 0
	s.spawnTimer = 0
	s.launches = 0
}

// Run steps the simulator headless for cfg.Duration seconds, diffing every
// frame against the previous one. It stops early when ctx is cancelled or
// the sink fails.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}
	if cfg.Schedule != nil {
		s.schedule = cfg.Schedule
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	prev := grid.New(s.params.Columns, s.params.Rows)
	if cfg.Sink != nil {
		if _, err := render.Render(cfg.Sink, nil, prev, true); err != nil {
			return result, fmt.Errorf("sim: initial draw: %w", err)
		}
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		cur := s.Frame()

		var n int
		if cfg.Sink != nil {
			var err error
			n, err = render.Render(cfg.Sink, prev, cur, false)
			if err != nil {
				s.finish(result)
				return result, fmt.Errorf("sim: step %d: %w", i, err)
			}
		} else {
			n = len(render.Diff(prev, cur, false))
		}
		prev = cur

		sm := s.Sample(n)
		s.Observe(sm)
		if i%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, sm)
		}
		result.Steps++
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	result.Clock = s.clock.Seconds()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
