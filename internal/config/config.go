package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fireworks/internal/palette"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/sim"
	"github.com/san-kum/fireworks/internal/smoke"
)

const (
	DefaultColumns   = 240
	DefaultRows      = 135
	DefaultGravity   = 8.0
	DefaultBlurSpeed = 16.0

	DefaultMaxDensity      = 8.0
	DefaultDissipationRate = 0.5
	DefaultEmissionPower   = 0.4
	DefaultProbabilityNorm = 0.25

	DefaultLaunchInterval = 5.0
	DefaultBonusChance    = 0.3
	DefaultBonusCount     = 2

	DefaultTickSleep = time.Millisecond
	DefaultFPS       = 60
)

type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Physics PhysicsConfig `yaml:"physics"`
	Smoke   SmokeConfig   `yaml:"smoke"`
	Launch  LaunchConfig  `yaml:"launch"`
	Glitter GlitterConfig `yaml:"glitter"`
	Loop    LoopConfig    `yaml:"loop"`
	Log     LogConfig     `yaml:"log"`
	// Seed of the random source. Zero picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

type GridConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

type PhysicsConfig struct {
	// Gravity is the downward acceleration in cells per second squared.
	Gravity   float64 `yaml:"gravity"`
	BlurSpeed float64 `yaml:"blur_speed"`
}

type SmokeConfig struct {
	MaxDensity      float64 `yaml:"max_density"`
	DissipationRate float64 `yaml:"dissipation_rate"`
	EmissionPower   float64 `yaml:"emission_power"`
	ProbabilityNorm float64 `yaml:"probability_norm"`
	ColourFlicker   bool    `yaml:"colour_flicker"`
	DensityFlicker  bool    `yaml:"density_flicker"`
}

type LaunchConfig struct {
	Auto         bool     `yaml:"auto"`
	Interval     float64  `yaml:"interval"`
	BonusChance  float64  `yaml:"bonus_chance"`
	BonusCount   int      `yaml:"bonus_count"`
	XMin         float64  `yaml:"x_min"`
	XMax         float64  `yaml:"x_max"`
	TargetJitter float64  `yaml:"target_jitter"`
	SpeedMin     float64  `yaml:"speed_min"`
	SpeedMax     float64  `yaml:"speed_max"`
	FuseMin      float64  `yaml:"fuse_min"`
	FuseMax      float64  `yaml:"fuse_max"`
	EmissionMin  float64  `yaml:"emission_min"`
	EmissionMax  float64  `yaml:"emission_max"`
	Hues         []string `yaml:"hues,omitempty"`
}

type GlitterConfig struct {
	CountMin      int     `yaml:"count_min"`
	CountMax      int     `yaml:"count_max"`
	EmissionMin   float64 `yaml:"emission_min"`
	EmissionMax   float64 `yaml:"emission_max"`
	Speed         float64 `yaml:"speed"`
	LifetimeMin   float64 `yaml:"lifetime_min"`
	LifetimeMax   float64 `yaml:"lifetime_max"`
	CrackleChance float64 `yaml:"crackle_chance"`
	CrackleCount  int     `yaml:"crackle_count"`
}

type LoopConfig struct {
	// TickSleep is the pause after every live tick.
	TickSleep time.Duration `yaml:"tick_sleep"`
	// FPS paces the bubbletea frontend and headless runs.
	FPS int `yaml:"fps"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	ShowCaller bool   `yaml:"show_caller"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{Columns: DefaultColumns, Rows: DefaultRows},
		Physics: PhysicsConfig{
			Gravity:   DefaultGravity,
			BlurSpeed: DefaultBlurSpeed,
		},
		Smoke: SmokeConfig{
			MaxDensity:      DefaultMaxDensity,
			DissipationRate: DefaultDissipationRate,
			EmissionPower:   DefaultEmissionPower,
			ProbabilityNorm: DefaultProbabilityNorm,
			ColourFlicker:   true,
			DensityFlicker:  true,
		},
		Launch: LaunchConfig{
			Auto:         true,
			Interval:     DefaultLaunchInterval,
			BonusChance:  DefaultBonusChance,
			BonusCount:   DefaultBonusCount,
			XMin:         0.4,
			XMax:         0.6,
			TargetJitter: 0.2,
			SpeedMin:     32,
			SpeedMax:     64,
			FuseMin:      1.25,
			FuseMax:      2.0,
			EmissionMin:  2,
			EmissionMax:  4,
		},
		Glitter: GlitterConfig{
			CountMin:    64,
			CountMax:    256,
			EmissionMin: 4,
			EmissionMax: 8,
			Speed:       32,
			LifetimeMin: 1.5,
			LifetimeMax: 3.5,
		},
		Loop: LoopConfig{TickSleep: DefaultTickSleep, FPS: DefaultFPS},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Hues parses the launch colour restriction. Empty means every hue.
func (c *Config) Hues() ([]palette.Hue, error) {
	return palette.ParseAll(c.Launch.Hues)
}

// ParticleLaunch converts the launch and glitter sections.
func (c *Config) ParticleLaunch() (particle.Launch, error) {
	hues, err := c.Hues()
	if err != nil {
		return particle.Launch{}, err
	}
	return particle.Launch{
		XMin:               c.Launch.XMin,
		XMax:               c.Launch.XMax,
		TargetJitter:       c.Launch.TargetJitter,
		SpeedMin:           c.Launch.SpeedMin,
		SpeedMax:           c.Launch.SpeedMax,
		FuseMin:            c.Launch.FuseMin,
		FuseMax:            c.Launch.FuseMax,
		EmissionMin:        c.Launch.EmissionMin,
		EmissionMax:        c.Launch.EmissionMax,
		GlitterMin:         c.Glitter.CountMin,
		GlitterMax:         c.Glitter.CountMax,
		GlitterEmissionMin: c.Glitter.EmissionMin,
		GlitterEmissionMax: c.Glitter.EmissionMax,
		GlitterSpeed:       c.Glitter.Speed,
		GlitterLifetimeMin: c.Glitter.LifetimeMin,
		GlitterLifetimeMax: c.Glitter.LifetimeMax,
		CrackleChance:      c.Glitter.CrackleChance,
		CrackleCount:       c.Glitter.CrackleCount,
		Hues:               hues,
	}, nil
}

// SimParams builds simulator parameters. The config should be validated
// first.
func (c *Config) SimParams() (sim.Params, error) {
	launch, err := c.ParticleLaunch()
	if err != nil {
		return sim.Params{}, err
	}
	return sim.Params{
		Columns: c.Grid.Columns,
		Rows:    c.Grid.Rows,
		Physics: particle.Physics{
			Gravity:       particle.Vec2{Y: c.Physics.Gravity},
			EmissionPower: c.Smoke.EmissionPower,
		},
		Smoke: smoke.Params{
			MaxDensity:      c.Smoke.MaxDensity,
			DissipationRate: c.Smoke.DissipationRate,
			ProbabilityNorm: c.Smoke.ProbabilityNorm,
		},
		BlurSpeed:      c.Physics.BlurSpeed,
		ColourFlicker:  c.Smoke.ColourFlicker,
		DensityFlicker: c.Smoke.DensityFlicker,
		Launch:         launch,
		AutoLaunch:     c.Launch.Auto,
		LaunchInterval: c.Launch.Interval,
		BonusChance:    c.Launch.BonusChance,
		BonusLaunches:  c.Launch.BonusCount,
	}, nil
}

// RandSeed resolves a zero seed to the current time.
func (c *Config) RandSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
