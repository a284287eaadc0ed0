package particle

import (
	"math"
	"math/rand"

	"github.com/san-kum/fireworks/internal/palette"
)

// Charge is the template of a particle that appears when its owner expires.
// It is never simulated itself.
type Charge struct {
	Hue      palette.Hue
	Emission float64
	// Speed is the magnitude of the velocity the spawned particle gets.
	// Direction is drawn at ignition; the owner's velocity is not inherited.
	Speed    float64
	Lifetime float64
	Charges  []Charge
}

// Ignite turns the charge into a live particle at pos.
func (c Charge) Ignite(pos Vec2, rng *rand.Rand) Particle {
	return Particle{
		Pos:       pos,
		Vel:       RandomUnit(rng).Scale(c.Speed),
		Hue:       c.Hue,
		Emission:  c.Emission,
		Remaining: c.Lifetime,
		Lifetime:  c.Lifetime,
		Charges:   cloneCharges(c.Charges),
	}
}

// Payload counts the charges carried, nested ones included.
func (c Charge) Payload() int {
	n := len(c.Charges)
	for _, sub := range c.Charges {
		n += sub.Payload()
	}
	return n
}

func cloneCharges(src []Charge) []Charge {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Charge, len(src))
	for i, c := range src {
		dst[i] = c
		dst[i].Charges = cloneCharges(c.Charges)
	}
	return dst
}

// Particle is one moving point of light.
type Particle struct {
	Pos, Vel Vec2
	Hue      palette.Hue
	// Emission is the smoke emitted per second at the start of life.
	Emission float64
	// Remaining counts down in seconds; Lifetime is fixed at creation.
	Remaining float64
	Lifetime  float64
	Charges   []Charge

	remove bool
}

// Elapsed is the fraction of the lifetime already used, in [0, 1].
func (p *Particle) Elapsed() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return math.Min(1, math.Max(0, (p.Lifetime-p.Remaining)/p.Lifetime))
}

// EmissionMultiplier tapers smoke output as the particle ages:
// (1 - elapsed)^power.
func (p *Particle) EmissionMultiplier(power float64) float64 {
	return math.Pow(1-p.Elapsed(), power)
}

// Payload counts the charges the particle will release, nested ones included.
func (p *Particle) Payload() int {
	n := len(p.Charges)
	for _, c := range p.Charges {
		n += c.Payload()
	}
	return n
}

func (p *Particle) Expired() bool { return p.Remaining <= 0 }
