package sim

import (
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/smoke"
)

// Params fixes every tunable of a simulator at construction.
type Params struct {
	Columns, Rows int
	Physics       particle.Physics
	Smoke         smoke.Params

	BlurSpeed      float64
	ColourFlicker  bool
	DensityFlicker bool

	Launch particle.Launch
	// AutoLaunch enables the spawn timer. The first launch happens on the
	// first step, then every LaunchInterval seconds.
	AutoLaunch     bool
	LaunchInterval float64
	// Each timer launch is followed by BonusLaunches extra rockets, each
	// with an independent BonusChance.
	BonusChance   float64
	BonusLaunches int
}

// Sample is the state summary recorded after a step.
type Sample struct {
	Time       float64
	Particles  int
	Payload    int
	Smoke      float64
	Directives int
	Launches   int
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// Schedule supplies launches due by the given simulation time in seconds.
// Each launch must be returned once.
type Schedule interface {
	Due(t float64) []particle.Launch
}

// RunConfig drives a headless run.
type RunConfig struct {
	Dt       float64
	Duration float64
	// SampleEvery keeps one sample in n in the result. Metrics and
	// observers still see every step.
	SampleEvery int
	Schedule    Schedule
	// Sink, when set, receives every frame through the diff renderer.
	Sink render.Sink
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Steps   int
	Clock   float64
}
