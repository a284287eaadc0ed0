package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fireworks/internal/automation"
	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/control"
	"github.com/san-kum/fireworks/internal/export"
	"github.com/san-kum/fireworks/internal/logging"
	"github.com/san-kum/fireworks/internal/loop"
	"github.com/san-kum/fireworks/internal/metrics"
	"github.com/san-kum/fireworks/internal/render"
	"github.com/san-kum/fireworks/internal/sim"
	"github.com/san-kum/fireworks/internal/storage"
	"github.com/san-kum/fireworks/internal/terminal"
	"github.com/san-kum/fireworks/internal/viz"
)

// newSim builds a seeded simulator with the default metric set.
func newSim(cfg *config.Config) (*sim.Simulator, int64, error) {
	p, err := cfg.SimParams()
	if err != nil {
		return nil, 0, err
	}
	s := cfg.RandSeed()
	simulator := sim.New(p, rand.New(rand.NewSource(s)))
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}
	return simulator, s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	var script *automation.Script
	if liveScript != "" {
		if script, err = automation.LoadScript(liveScript); err != nil {
			return err
		}
		if _, cfg, err = automation.Prepare(script, cfg); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	switch backend {
	case "tcell":
		screen, err := terminal.Open(control.DefaultBindings())
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer screen.Close()
		if fit {
			cfg.Grid.Columns, cfg.Grid.Rows = screen.Size()
		}
		return runLoop(ctx, cfg, script, screen, screen, log)

	case "ansi":
		sink := render.NewANSI(os.Stdout)
		if err := sink.Enter(); err != nil {
			return err
		}
		defer sink.Leave()
		return runLoop(ctx, cfg, script, sink, nil, log)

	default:
		return fmt.Errorf("unknown backend %q (have tcell, ansi)", backend)
	}
}

func runLoop(ctx context.Context, cfg *config.Config, script *automation.Script, sink render.Sink, input control.Source, log *zap.SugaredLogger) error {
	s, sd, err := newSim(cfg)
	if err != nil {
		return err
	}
	if script != nil {
		schedule, err := automation.NewSchedule(script.Launches, s.Params().Launch)
		if err != nil {
			return err
		}
		s.SetSchedule(schedule)
		log.Infow("playing script", "name", script.Name, "cues", schedule.Remaining())
	}
	log.Infow("starting show", "columns", cfg.Grid.Columns, "rows", cfg.Grid.Rows, "seed", sd, "backend", backend)

	r := &loop.Runner{
		Sim:       s,
		Sink:      sink,
		Input:     input,
		Log:       log,
		TickSleep: cfg.Loop.TickSleep,
		FixedDt:   fixedDt,
		MaxTicks:  maxTicks,
		Pool:      sim.NewGridPool(cfg.Grid.Columns, cfg.Grid.Rows),
	}
	err = r.Run(ctx)
	log.Infow("show ended", "ticks", r.Ticks(), "launches", s.Launches(), "clock", s.Clock())
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	build := func(name string) (viz.Model, error) {
		c := *cfg
		if name != "" {
			config.Apply(&c, name)
		}
		if err := c.Validate(); err != nil {
			return viz.Model{}, err
		}
		s, sd, err := newSim(&c)
		if err != nil {
			return viz.Model{}, err
		}
		log.Infow("starting tui show", "preset", name, "seed", sd)
		return viz.NewModel(s, name, c.Loop.FPS).WithTheme(theme).RecordTo(recordPath), nil
	}

	if preset != "" || configFile != "" {
		m, err := build("")
		if err != nil {
			return err
		}
		return viz.Run(m)
	}
	return viz.Run(viz.NewPicker(config.ListPresets(), build))
}

func benchShows(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	p, err := cfg.SimParams()
	if err != nil {
		return err
	}
	seedStart := cfg.RandSeed()
	ens := sim.NewEnsemble(p, numRuns, seedStart)
	ens.Metrics = metrics.Default

	ctx, cancel := signalContext()
	defer cancel()

	step := headlessDt(cfg)
	log.Infow("benchmarking", "runs", numRuns, "duration", duration, "dt", step, "seed", seedStart)
	start := time.Now()
	results, err := ens.Run(ctx, sim.RunConfig{Dt: step, Duration: duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tLAUNCHES\tPEAK\tMEAN\tSMOKE\tDIRECTIVES")
	totalSteps := 0
	for i, res := range results {
		totalSteps += res.Steps
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\n",
			seedStart+int64(i),
			res.Steps,
			res.Metrics["launches"],
			res.Metrics["peak_particles"],
			res.Metrics["mean_particles"],
			res.Metrics["mean_smoke"],
			res.Metrics["mean_directives"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", totalSteps, elapsed, float64(totalSteps)/elapsed.Seconds())
	return nil
}

func sweepShows(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Duration: duration,
		Dt:       headlessDt(cfg),
		Seed:     cfg.RandSeed(),
	}, cfg, log)
	if err != nil {
		return fmt.Errorf("%w (sweepable: %s)", err, strings.Join(automation.SweepParams(), ", "))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tMEAN\tSMOKE\tLAUNCHES\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.0f\t%.1f\t%.1f\t%.0f\n",
			r.Value,
			r.Metrics["peak_particles"],
			r.Metrics["mean_particles"],
			r.Metrics["mean_smoke"],
			r.Metrics["launches"],
		)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := automation.RunScript(ctx, script, cfg, log)
	if err != nil {
		return err
	}
	printMetrics(os.Stdout, result.Metrics)
	if noSave {
		return nil
	}

	_, resolved, err := automation.Prepare(script, cfg)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := script.Name
	if name == "" {
		name = "script"
	}
	step := script.Dt
	if step == 0 {
		step = 1 / float64(resolved.Loop.FPS)
	}
	id, err := st.Save(storage.RunMetadata{
		Preset:   name,
		Seed:     resolved.Seed,
		Dt:       step,
		Duration: script.Duration,
		Columns:  resolved.Grid.Columns,
		Rows:     resolved.Grid.Rows,
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run %s\n", id)
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%.2f\n", name, m[name])
	}
	tw.Flush()
}

func recordGIF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, sd, err := newSim(cfg)
	if err != nil {
		return err
	}
	step := headlessDt(cfg)

	rec := export.NewGIFRecorder(cfg.Grid.Columns, cfg.Grid.Rows, gifScale)
	rec.FrameEvery = frameEvery
	rec.MaxFrames = maxFrames
	rec.Delay = max(1, int(step*float64(max(frameEvery, 1))*100+0.5))

	ctx, cancel := signalContext()
	defer cancel()

	log.Infow("recording", "duration", duration, "dt", step, "seed", sd, "out", outPath)
	if _, err := s.Run(ctx, sim.RunConfig{Dt: step, Duration: duration, Sink: rec}); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := rec.Save(f); err != nil {
		return err
	}
	log.Infow("recorded", "frames", rec.Frames(), "dropped", rec.Dropped())
	return f.Close()
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, sd, err := newSim(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if _, err := s.Run(ctx, sim.RunConfig{Dt: headlessDt(cfg), Duration: duration}); err != nil {
		return err
	}
	log.Infow("snapshot", "clock", s.Clock(), "particles", s.Particles(), "seed", sd)
	return os.WriteFile(outPath, []byte(export.GridToSVG(s.Frame(), scale)), 0644)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHOW\tTIME\tDURATION\tDT\tSIZE\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%dx%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Columns,
			run.Rows,
			run.Steps,
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []sim.Sample, error) {
	commandFlags(cmd)
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("show: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"particles", func(s sim.Sample) float64 { return float64(s.Particles) }},
		{"smoke mass", func(s sim.Sample) float64 { return s.Smoke }},
		{"directives per frame", func(s sim.Sample) float64 { return float64(s.Directives) }},
	}
	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = float64(s.Particles)
		}
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(data, 800, 300, "#00ff88")), 0644); err != nil {
			return err
		}
	}
	return nil
}

// output opens outPath, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteSamples(w, samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	result := &sim.Result{Samples: samples, Metrics: meta.Metrics, Steps: meta.Steps}
	if err := storage.ExportJSON(w, *meta, result); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset %q (have %v)", args[0], config.ListPresets())
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
