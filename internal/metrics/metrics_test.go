package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fireworks/internal/sim"
)

func TestPeakParticles(t *testing.T) {
	m := NewPeakParticles()
	for _, n := range []int{3, 120, 40, 0} {
		m.Observe(sim.Sample{Particles: n})
	}
	if m.Value() != 120 {
		t.Errorf("expected peak 120, got %v", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestMeans(t *testing.T) {
	samples := []sim.Sample{
		{Particles: 10, Smoke: 1.5, Directives: 100},
		{Particles: 30, Smoke: 2.5, Directives: 300},
	}

	tests := []struct {
		metric *Mean
		name   string
		want   float64
	}{
		{NewMeanParticles(), "mean_particles", 20},
		{NewMeanSmoke(), "mean_smoke", 2},
		{NewMeanDirectives(), "mean_directives", 200},
	}
	for _, tt := range tests {
		if tt.metric.Value() != 0 {
			t.Errorf("%s: expected 0 before any sample", tt.name)
		}
		for _, s := range samples {
			tt.metric.Observe(s)
		}
		if tt.metric.Name() != tt.name {
			t.Errorf("expected name %s, got %s", tt.name, tt.metric.Name())
		}
		if math.Abs(tt.metric.Value()-tt.want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.metric.Value())
		}
	}
}

func TestLaunches(t *testing.T) {
	m := NewLaunches()
	m.Observe(sim.Sample{Launches: 1})
	m.Observe(sim.Sample{Launches: 4})
	if m.Value() != 4 {
		t.Errorf("expected 4, got %v", m.Value())
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
