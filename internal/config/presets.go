package config

import "sort"

// Presets are named overlays applied on top of DefaultConfig.
var Presets = map[string]func(c *Config){
	// classic is the reference show.
	"classic": func(c *Config) {},
	"small": func(c *Config) {
		c.Grid = GridConfig{Columns: 80, Rows: 45}
		c.Launch.SpeedMin, c.Launch.SpeedMax = 14, 22
		c.Launch.FuseMin, c.Launch.FuseMax = 1.0, 1.6
		c.Glitter.CountMin, c.Glitter.CountMax = 24, 96
		c.Glitter.Speed = 12
		c.Physics.BlurSpeed = 8
	},
	"calm": func(c *Config) {
		c.Launch.Interval = 8
		c.Launch.BonusChance = 0
		c.Smoke.DensityFlicker = false
		c.Smoke.ColourFlicker = false
		c.Smoke.DissipationRate = 0.3
	},
	"finale": func(c *Config) {
		c.Launch.Interval = 1.5
		c.Launch.BonusChance = 0.6
		c.Launch.BonusCount = 3
		c.Glitter.CrackleChance = 0.25
		c.Glitter.CrackleCount = 6
	},
	"mono": func(c *Config) {
		c.Launch.Hues = []string{"white", "yellow"}
	},
}

// GetPreset returns the default config with the named preset applied, or
// nil when no such preset exists.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply overlays the named preset onto c.
func Apply(c *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(c)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
