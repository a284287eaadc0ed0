package metrics

import "github.com/san-kum/fireworks/internal/sim"

// PeakParticles tracks the largest live particle count seen.
type PeakParticles struct {
	name string
	peak int
}

func NewPeakParticles() *PeakParticles {
	return &PeakParticles{name: "peak_particles"}
}

func (p *PeakParticles) Name() string { return p.name }

func (p *PeakParticles) Observe(s sim.Sample) {
	if s.Particles > p.peak {
		p.peak = s.Particles
	}
}

func (p *PeakParticles) Value() float64 { return float64(p.peak) }
func (p *PeakParticles) Reset()         { p.peak = 0 }

// Mean averages one field of the sample over every observed step.
type Mean struct {
	name    string
	field   func(s sim.Sample) float64
	sum     float64
	samples int
}

func NewMeanParticles() *Mean {
	return &Mean{name: "mean_particles", field: func(s sim.Sample) float64 { return float64(s.Particles) }}
}

// NewMeanSmoke averages the total smoke density over the field.
func NewMeanSmoke() *Mean {
	return &Mean{name: "mean_smoke", field: func(s sim.Sample) float64 { return s.Smoke }}
}

// NewMeanDirectives averages the number of cells redrawn per frame.
func NewMeanDirectives() *Mean {
	return &Mean{name: "mean_directives", field: func(s sim.Sample) float64 { return float64(s.Directives) }}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(s sim.Sample) {
	m.sum += m.field(s)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}
