package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/palette"
	"github.com/san-kum/fireworks/internal/particle"
)

const testScript = `
name: opener
description: three rockets then a pair
preset: small
duration: 4
dt: 0.05
seed: 9
auto_launch: false
launches:
  - at: 2.5
    count: 2
    hues: [red, white]
  - at: 0.5
    x: 0.25
  - at: 1
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "show.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScript(t *testing.T) {
	script, err := LoadScript(writeScript(t, testScript))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if script.Name != "opener" {
		t.Errorf("expected name opener, got %s", script.Name)
	}
	if script.AutoLaunch == nil || *script.AutoLaunch {
		t.Error("expected auto_launch false")
	}
	if len(script.Launches) != 3 {
		t.Fatalf("expected 3 launches, got %d", len(script.Launches))
	}
	if x := script.Launches[1].X; x == nil || *x != 0.25 {
		t.Errorf("expected x 0.25, got %v", x)
	}
}

func TestLoadScriptInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no duration", "name: x\n"},
		{"negative time", "duration: 1\nlaunches:\n  - at: -1\n"},
		{"negative count", "duration: 1\nlaunches:\n  - at: 0\n    count: -2\n"},
		{"x out of range", "duration: 1\nlaunches:\n  - at: 0\n    x: 1.5\n"},
		{"bad hue", "duration: 1\nlaunches:\n  - at: 0\n    hues: [ochre]\n"},
		{"bad preset", "duration: 1\npreset: nope\n"},
		{"bad yaml", "duration: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript(writeScript(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScheduleDue(t *testing.T) {
	x := 0.25
	base := particle.Launch{XMin: 0.4, XMax: 0.6}
	sc, err := NewSchedule([]ScriptLaunch{
		{At: 2.5, Count: 2, Hues: []string{"red"}},
		{At: 0.5, X: &x},
		{At: 1},
	}, base)
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if sc.Remaining() != 4 {
		t.Errorf("expected 4 cues, got %d", sc.Remaining())
	}

	if due := sc.Due(0.4); len(due) != 0 {
		t.Errorf("expected nothing due at 0.4, got %d", len(due))
	}

	due := sc.Due(0.5)
	if len(due) != 1 {
		t.Fatalf("expected 1 launch at 0.5, got %d", len(due))
	}
	if due[0].XMin != 0.25 || due[0].XMax != 0.25 {
		t.Errorf("expected pinned x 0.25, got [%v, %v]", due[0].XMin, due[0].XMax)
	}

	if due := sc.Due(0.5); len(due) != 0 {
		t.Errorf("expected launches to be handed out once, got %d", len(due))
	}

	due = sc.Due(10)
	if len(due) != 3 {
		t.Fatalf("expected 3 launches by 10s, got %d", len(due))
	}
	if due[0].XMin != 0.4 {
		t.Errorf("expected base x range for the 1s launch, got %v", due[0].XMin)
	}
	for _, l := range due[1:] {
		if len(l.Hues) != 1 || l.Hues[0] != palette.Red {
			t.Errorf("expected red only, got %v", l.Hues)
		}
	}
	if sc.Remaining() != 0 {
		t.Errorf("expected no cues left, got %d", sc.Remaining())
	}
}

func TestRunScript(t *testing.T) {
	script, err := LoadScript(writeScript(t, testScript))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	result, err := RunScript(context.Background(), script, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Steps != 80 {
		t.Errorf("expected 80 steps, got %d", result.Steps)
	}
	if got := result.Metrics["launches"]; got != 4 {
		t.Errorf("expected 4 launches, got %v", got)
	}
	if result.Metrics["peak_particles"] < 4 {
		t.Errorf("expected rockets in flight, got peak %v", result.Metrics["peak_particles"])
	}
}

func TestRunScriptSameSeed(t *testing.T) {
	script, err := LoadScript(writeScript(t, testScript))
	if err != nil {
		t.Fatal(err)
	}
	a, err := RunScript(context.Background(), script, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunScript(context.Background(), script, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestPrepareLeavesConfigUntouched(t *testing.T) {
	cfg := config.DefaultConfig()
	off := false
	p, resolved, err := Prepare(&Script{Duration: 1, Preset: "small", AutoLaunch: &off}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Columns != 80 || p.AutoLaunch {
		t.Errorf("expected small manual show, got %dx%d auto=%v", p.Columns, p.Rows, p.AutoLaunch)
	}
	if resolved.Grid.Columns != 80 {
		t.Errorf("expected resolved config to carry the preset")
	}
	if cfg.Grid.Columns != config.DefaultColumns || !cfg.Launch.Auto {
		t.Error("expected input config unchanged")
	}
}

func TestRunSweep(t *testing.T) {
	cfg := config.GetPreset("small")
	cfg.Launch.Interval = 1

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Param:    "dissipation_rate",
		Min:      0.1,
		Max:      0.9,
		NumSteps: 3,
		Duration: 3,
		Dt:       0.05,
		Seed:     3,
	}, cfg, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Value != 0.5 {
		t.Errorf("expected middle value 0.5, got %v", results[1].Value)
	}
	if cfg.Smoke.DissipationRate != config.DefaultDissipationRate {
		t.Error("expected sweep to leave config unchanged")
	}
}

func TestRunSweepErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "colour", NumSteps: 2, Duration: 1, Dt: 0.1}, cfg, nil); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "gravity", Duration: 1, Dt: 0.1}, cfg, nil); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestSweepParamsSorted(t *testing.T) {
	names := SweepParams()
	if len(names) != len(Sweepable) {
		t.Fatalf("expected %d names, got %d", len(Sweepable), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
