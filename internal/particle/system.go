package particle

import (
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/grid"
	"github.com/san-kum/fireworks/internal/palette"
)

// Absorber receives smoke emitted by particles. smoke.Field implements it.
type Absorber interface {
	Absorb(x, y int, h palette.Hue, amount float64)
}

type Physics struct {
	Gravity Vec2
	// EmissionPower is the exponent of the emission taper curve.
	EmissionPower float64
}

// Launch describes how a rocket and its glitter payload are randomised.
// Ranges are [min, max); X bounds and TargetJitter are fractions of the
// grid width.
type Launch struct {
	XMin, XMax         float64
	TargetJitter       float64
	SpeedMin, SpeedMax float64
	FuseMin, FuseMax   float64

	EmissionMin, EmissionMax float64

	GlitterMin, GlitterMax                 int
	GlitterEmissionMin, GlitterEmissionMax float64
	GlitterSpeed                           float64
	GlitterLifetimeMin, GlitterLifetimeMax float64

	// CrackleChance is the probability that a glitter charge bursts once
	// more into CrackleCount short-lived sparks of the same hue.
	CrackleChance float64
	CrackleCount  int

	// Hues restricts glitter colours. Empty means any hue.
	Hues []palette.Hue
}

const (
	crackleLifetimeMin = 0.3
	crackleLifetimeMax = 0.8
)

type System struct {
	columns, rows int
	physics       Physics
	rng           *rand.Rand

	particles []Particle
	spawned   []Particle
}

func NewSystem(columns, rows int, physics Physics, rng *rand.Rand) *System {
	return &System{
		columns:   columns,
		rows:      rows,
		physics:   physics,
		rng:       rng,
		particles: make([]Particle, 0, 1024),
	}
}

// Particles exposes the live particles. The slice must not be retained
// across calls to Update.
func (s *System) Particles() []Particle { return s.particles }
func (s *System) Len() int              { return len(s.particles) }
func (s *System) Add(p Particle)        { s.particles = append(s.particles, p) }
func (s *System) Reset()                { s.particles = s.particles[:0] }

// Payload is the number of particles still waiting inside live ones.
func (s *System) Payload() int {
	n := 0
	for i := range s.particles {
		n += s.particles[i].Payload()
	}
	return n
}

// SpawnFirework appends one rocket launched from the bottom edge toward
// the top centre of the grid.
func (s *System) SpawnFirework(l Launch) {
	rng := s.rng
	cols, rows := float64(s.columns), float64(s.rows)

	pos := Vec2{between(rng, cols*l.XMin, cols*l.XMax), rows}
	target := Vec2{cols / 2, 0}.Add(RandomInDisk(rng, cols*l.TargetJitter))
	speed := between(rng, l.SpeedMin, l.SpeedMax)
	fuse := between(rng, l.FuseMin, l.FuseMax)

	n := intBetween(rng, l.GlitterMin, l.GlitterMax)
	glitter := make([]Charge, n)
	for i := range glitter {
		hue := palette.Random(rng)
		if len(l.Hues) > 0 {
			hue = l.Hues[rng.Intn(len(l.Hues))]
		}
		glitter[i] = Charge{
			Hue:      hue,
			Emission: between(rng, l.GlitterEmissionMin, l.GlitterEmissionMax),
			Speed:    math.Sqrt(rng.Float64()) * l.GlitterSpeed,
			Lifetime: between(rng, l.GlitterLifetimeMin, l.GlitterLifetimeMax),
		}
		if l.CrackleCount > 0 && rng.Float64() < l.CrackleChance {
			glitter[i].Charges = s.crackle(glitter[i], l)
		}
	}

	s.particles = append(s.particles, Particle{
		Pos:       pos,
		Vel:       target.Sub(pos).Normalize().Scale(speed),
		Hue:       palette.White,
		Emission:  between(rng, l.EmissionMin, l.EmissionMax),
		Remaining: fuse,
		Lifetime:  fuse,
		Charges:   glitter,
	})
}

func (s *System) crackle(parent Charge, l Launch) []Charge {
	sparks := make([]Charge, l.CrackleCount)
	for i := range sparks {
		sparks[i] = Charge{
			Hue:      parent.Hue,
			Emission: parent.Emission / 2,
			Speed:    math.Sqrt(s.rng.Float64()) * l.GlitterSpeed / 2,
			Lifetime: between(s.rng, crackleLifetimeMin, crackleLifetimeMax),
		}
	}
	return sparks
}

// Update advances every particle by dt seconds. In-bounds particles emit
// smoke into field before moving. Expired particles are removed and their
// charges ignited; the new particles are only appended after the pass and
// are first simulated next tick. Update returns how many were ignited.
func (s *System) Update(dt float64, field Absorber) int {
	s.spawned = s.spawned[:0]
	gravity := s.physics.Gravity.Scale(dt)

	for i := range s.particles {
		p := &s.particles[i]
		p.remove = false

		if cx, cy, ok := grid.CellOf(p.Pos.X, p.Pos.Y, s.columns, s.rows); ok && field != nil {
			amount := p.Emission * p.EmissionMultiplier(s.physics.EmissionPower) * dt
			field.Absorb(cx, cy, p.Hue, amount)
		}

		p.Vel = p.Vel.Add(gravity)
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))

		p.Remaining -= dt
		if p.Remaining <= 0 {
			p.remove = true
			for _, c := range p.Charges {
				s.spawned = append(s.spawned, c.Ignite(p.Pos, s.rng))
			}
		}
	}

	live := s.particles[:0]
	for _, p := range s.particles {
		if !p.remove {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.particles); i++ {
		s.particles[i] = Particle{}
	}
	s.particles = append(live, s.spawned...)

	return len(s.spawned)
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func intBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
