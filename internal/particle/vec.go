package particle

import (
	"math"
	"math/rand"
)

// Vec2 is a position or velocity in cell units. Y grows downward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Angle() float64       { return math.Atan2(v.Y, v.X) }

// FromAngle returns the unit vector with heading theta.
func FromAngle(theta float64) Vec2 { return Vec2{math.Cos(theta), math.Sin(theta)} }

// Normalize returns the unit vector along v, or the zero vector when v has
// no usable length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// RandomUnit returns a unit vector with a uniformly random heading.
func RandomUnit(rng *rand.Rand) Vec2 {
	return FromAngle(rng.Float64() * 2 * math.Pi)
}

// RandomInDisk returns a point uniformly distributed over a disk of the
// given radius. The square root keeps the areal density uniform.
func RandomInDisk(rng *rand.Rand, radius float64) Vec2 {
	return RandomUnit(rng).Scale(math.Sqrt(rng.Float64()) * radius)
}
