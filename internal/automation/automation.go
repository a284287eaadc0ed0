package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/metrics"
	"github.com/san-kum/fireworks/internal/palette"
	"github.com/san-kum/fireworks/internal/particle"
	"github.com/san-kum/fireworks/internal/sim"
)

// Script is a choreographed show loaded from YAML.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Duration    float64 `yaml:"duration"`
	Dt          float64 `yaml:"dt"`
	Seed        int64   `yaml:"seed"`
	// AutoLaunch overrides the config's spawn timer when set.
	AutoLaunch *bool          `yaml:"auto_launch"`
	Launches   []ScriptLaunch `yaml:"launches"`
}

// ScriptLaunch fires Count rockets once the clock reaches At seconds.
type ScriptLaunch struct {
	At    float64 `yaml:"at"`
	Count int     `yaml:"count"`
	// X pins the launch column as a fraction of the width.
	X    *float64 `yaml:"x"`
	Hues []string `yaml:"hues"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &script, nil
}

func (s *Script) Validate() error {
	if !(s.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %v", s.Duration)
	}
	if s.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %v", s.Dt)
	}
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("unknown preset %q", s.Preset)
	}
	for i, l := range s.Launches {
		if l.At < 0 {
			return fmt.Errorf("launch %d: negative time %v", i, l.At)
		}
		if l.Count < 0 {
			return fmt.Errorf("launch %d: negative count %d", i, l.Count)
		}
		if l.X != nil && (*l.X < 0 || *l.X > 1) {
			return fmt.Errorf("launch %d: x %v outside [0, 1]", i, *l.X)
		}
		if _, err := palette.ParseAll(l.Hues); err != nil {
			return fmt.Errorf("launch %d: %w", i, err)
		}
	}
	return nil
}

type cue struct {
	at     float64
	launch particle.Launch
}

// Schedule hands out the launches of a script as the clock passes them.
type Schedule struct {
	cues []cue
	next int
}

// NewSchedule expands a script's launches on top of base. Cues are ordered
// by time; a count of zero means one rocket.
func NewSchedule(launches []ScriptLaunch, base particle.Launch) (*Schedule, error) {
	sc := &Schedule{}
	for i, l := range launches {
		pl := base
		if l.X != nil {
			pl.XMin, pl.XMax = *l.X, *l.X
		}
		if len(l.Hues) > 0 {
			hues, err := palette.ParseAll(l.Hues)
			if err != nil {
				return nil, fmt.Errorf("launch %d: %w", i, err)
			}
			pl.Hues = hues
		}
		n := l.Count
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			sc.cues = append(sc.cues, cue{at: l.At, launch: pl})
		}
	}
	sort.SliceStable(sc.cues, func(i, j int) bool { return sc.cues[i].at < sc.cues[j].at })
	return sc, nil
}

func (sc *Schedule) Due(t float64) []particle.Launch {
	var due []particle.Launch
	for sc.next < len(sc.cues) && sc.cues[sc.next].at <= t {
		due = append(due, sc.cues[sc.next].launch)
		sc.next++
	}
	return due
}

// Remaining reports how many rockets are still to come.
func (sc *Schedule) Remaining() int { return len(sc.cues) - sc.next }

// Prepare resolves the simulator parameters of a script: the preset is
// applied over cfg and the spawn timer override honoured.
func Prepare(script *Script, cfg *config.Config) (sim.Params, *config.Config, error) {
	c := *cfg
	if script.Preset != "" {
		config.Apply(&c, script.Preset)
	}
	if script.AutoLaunch != nil {
		c.Launch.Auto = *script.AutoLaunch
	}
	if script.Seed != 0 {
		c.Seed = script.Seed
	}
	if err := c.Validate(); err != nil {
		return sim.Params{}, nil, err
	}
	p, err := c.SimParams()
	if err != nil {
		return sim.Params{}, nil, err
	}
	return p, &c, nil
}

// RunScript plays a script headless and returns the recorded run.
func RunScript(ctx context.Context, script *Script, cfg *config.Config, log *zap.SugaredLogger) (*sim.Result, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	p, resolved, err := Prepare(script, cfg)
	if err != nil {
		return nil, err
	}
	schedule, err := NewSchedule(script.Launches, p.Launch)
	if err != nil {
		return nil, err
	}

	dt := script.Dt
	if dt == 0 {
		dt = 1 / float64(resolved.Loop.FPS)
	}

	seed := resolved.RandSeed()
	s := sim.New(p, rand.New(rand.NewSource(seed)))
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	log.Infow("running script", "name", script.Name, "duration", script.Duration, "dt", dt, "cues", schedule.Remaining(), "seed", seed)
	result, err := s.Run(ctx, sim.RunConfig{Dt: dt, Duration: script.Duration, Schedule: schedule})
	if err != nil {
		return result, fmt.Errorf("script %s: %w", script.Name, err)
	}
	log.Infow("script finished", "name", script.Name, "steps", result.Steps, "launches", s.Launches())
	return result, nil
}
