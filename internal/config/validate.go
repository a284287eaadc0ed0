package config

import (
	"fmt"
	"math"
	"strings"
)

// Validate rejects configurations the simulation cannot start with.
func (c *Config) Validate() error {
	if c.Grid.Columns <= 0 {
		return fmt.Errorf("%w: grid.columns must be positive, got %d", ErrInvalidGrid, c.Grid.Columns)
	}
	if c.Grid.Rows <= 0 {
		return fmt.Errorf("%w: grid.rows must be positive, got %d", ErrInvalidGrid, c.Grid.Rows)
	}

	params := []struct {
		key   string
		value float64
		ok    bool
	}{
		{"physics.gravity", c.Physics.Gravity, finite(c.Physics.Gravity)},
		{"physics.blur_speed", c.Physics.BlurSpeed, nonNegative(c.Physics.BlurSpeed)},
		{"smoke.max_density", c.Smoke.MaxDensity, c.Smoke.MaxDensity > 0 && finite(c.Smoke.MaxDensity)},
		{"smoke.dissipation_rate", c.Smoke.DissipationRate, nonNegative(c.Smoke.DissipationRate)},
		{"smoke.emission_power", c.Smoke.EmissionPower, nonNegative(c.Smoke.EmissionPower)},
		{"smoke.probability_norm", c.Smoke.ProbabilityNorm, nonNegative(c.Smoke.ProbabilityNorm)},
		{"launch.interval", c.Launch.Interval, !c.Launch.Auto || c.Launch.Interval > 0},
		{"launch.bonus_chance", c.Launch.BonusChance, unit(c.Launch.BonusChance)},
		{"launch.bonus_count", float64(c.Launch.BonusCount), c.Launch.BonusCount >= 0},
		{"launch.target_jitter", c.Launch.TargetJitter, nonNegative(c.Launch.TargetJitter)},
		{"glitter.speed", c.Glitter.Speed, nonNegative(c.Glitter.Speed)},
		{"glitter.crackle_chance", c.Glitter.CrackleChance, unit(c.Glitter.CrackleChance)},
		{"glitter.crackle_count", float64(c.Glitter.CrackleCount), c.Glitter.CrackleCount >= 0},
		{"loop.tick_sleep", float64(c.Loop.TickSleep), c.Loop.TickSleep >= 0},
		{"loop.fps", float64(c.Loop.FPS), c.Loop.FPS > 0},
	}
	for _, p := range params {
		if !p.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParameter, p.key, p.value)
		}
	}

	ranges := []struct {
		key      string
		min, max float64
		floor    float64
	}{
		{"launch.x", c.Launch.XMin, c.Launch.XMax, 0},
		{"launch.speed", c.Launch.SpeedMin, c.Launch.SpeedMax, 0},
		{"launch.fuse", c.Launch.FuseMin, c.Launch.FuseMax, 0},
		{"launch.emission", c.Launch.EmissionMin, c.Launch.EmissionMax, 0},
		{"glitter.count", float64(c.Glitter.CountMin), float64(c.Glitter.CountMax), 0},
		{"glitter.emission", c.Glitter.EmissionMin, c.Glitter.EmissionMax, 0},
		{"glitter.lifetime", c.Glitter.LifetimeMin, c.Glitter.LifetimeMax, 0},
	}
	for _, r := range ranges {
		if !finite(r.min) || !finite(r.max) || r.min < r.floor || r.min > r.max {
			return fmt.Errorf("%w: %s_min = %v, %s_max = %v", ErrInvalidRange, r.key, r.min, r.key, r.max)
		}
	}
	if c.Launch.XMax > 1 {
		return fmt.Errorf("%w: launch.x_max = %v exceeds 1", ErrInvalidRange, c.Launch.XMax)
	}
	if c.Launch.FuseMin <= 0 || c.Glitter.LifetimeMin <= 0 {
		return fmt.Errorf("%w: fuse and glitter lifetimes must be positive", ErrInvalidRange)
	}

	if _, err := c.Hues(); err != nil {
		return fmt.Errorf("%w: launch.hues: %v", ErrInvalidParameter, err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidParameter, c.Log.Level)
	}
	return nil
}

func finite(v float64) bool      { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func nonNegative(v float64) bool { return finite(v) && v >= 0 }
func unit(v float64) bool        { return finite(v) && v >= 0 && v <= 1 }
