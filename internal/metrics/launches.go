package metrics

import "github.com/san-kum/fireworks/internal/sim"

// Launches reports the simulator's launch counter at the last step.
type Launches struct {
	name string
	last int
}

func NewLaunches() *Launches {
	return &Launches{name: "launches"}
}

func (l *Launches) Name() string         { return l.name }
func (l *Launches) Observe(s sim.Sample) { l.last = s.Launches }
func (l *Launches) Value() float64       { return float64(l.last) }
func (l *Launches) Reset()               { l.last = 0 }

// Default is the metric set every command records.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPeakParticles(),
		NewMeanParticles(),
		NewMeanSmoke(),
		NewMeanDirectives(),
		NewLaunches(),
	}
}
