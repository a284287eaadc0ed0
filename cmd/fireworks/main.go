package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fireworks/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string
	// Overrides, applied only when the flag was set.
	columns    int
	rows       int
	seed       int64
	gravity    float64
	interval   float64
	autoLaunch bool
	hues       []string
	fps        int
	tickSleep  time.Duration
	logLevel   string
	logFile    string
	// Headless runs
	dt       float64
	duration float64
	// Live loop
	backend    string
	maxTicks   int
	fixedDt    float64
	fit        bool
	liveScript string
	// Outputs
	outPath    string
	scale      float64
	gifScale   int
	frameEvery int
	maxFrames  int
	// Bench and sweep
	numRuns    int
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// TUI
	theme      string
	recordPath string
	// Script and plot
	noSave bool
	svgOut string
)

// main registers the commands and runs the live show when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "fireworks",
		Short:        "terminal fireworks show",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fireworks", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().IntVar(&columns, "columns", config.DefaultColumns, "grid columns")
	rootCmd.PersistentFlags().IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	rootCmd.PersistentFlags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity in cells/s^2")
	rootCmd.PersistentFlags().Float64Var(&interval, "interval", config.DefaultLaunchInterval, "seconds between automatic launches")
	rootCmd.PersistentFlags().BoolVar(&autoLaunch, "auto", true, "launch rockets automatically")
	rootCmd.PersistentFlags().StringSliceVar(&hues, "hues", nil, "restrict glitter colours")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate for tui and headless defaults")
	rootCmd.PersistentFlags().DurationVar(&tickSleep, "tick-sleep", config.DefaultTickSleep, "pause after every live tick")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (live modes log nowhere without one)")

	liveFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&backend, "backend", "tcell", "display backend (tcell, ansi)")
		c.Flags().IntVar(&maxTicks, "ticks", 0, "stop after this many ticks (0 = run until quit)")
		c.Flags().Float64Var(&fixedDt, "fixed-dt", 0, "use a fixed timestep instead of wall time")
		c.Flags().BoolVar(&fit, "fit", false, "size the grid to the terminal")
		c.Flags().StringVar(&liveScript, "script", "", "play the launches of a yaml show")
	}
	liveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the live show",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveFlags(runCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the show in the bubbletea frontend",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "night", "panel theme")
	tuiCmd.Flags().StringVar(&recordPath, "record", "fireworks.gif", "where G recordings are saved")

	headlessFlags := func(c *cobra.Command, defaultDuration float64) {
		c.Flags().Float64Var(&dt, "dt", 0, "timestep (0 = 1/fps)")
		c.Flags().Float64Var(&duration, "time", defaultDuration, "duration in seconds")
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeded shows in parallel and tabulate them",
		Args:  cobra.NoArgs,
		RunE:  benchShows,
	}
	headlessFlags(benchCmd, 30)
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter across seeded shows",
		Args:  cobra.NoArgs,
		RunE:  sweepShows,
	}
	headlessFlags(sweepCmd, 20)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dissipation_rate", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "play a yaml show headless and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a headless show as an animated gif",
		Args:  cobra.NoArgs,
		RunE:  recordGIF,
	}
	headlessFlags(recordCmd, 10)
	recordCmd.Flags().StringVarP(&outPath, "out", "o", "fireworks.gif", "output file")
	recordCmd.Flags().IntVar(&gifScale, "scale", 2, "pixels per cell column")
	recordCmd.Flags().IntVar(&frameEvery, "every", 2, "keep one frame in n")
	recordCmd.Flags().IntVar(&maxFrames, "max-frames", 600, "frame cap (0 = none)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the show at a point in time as svg",
		Args:  cobra.NoArgs,
		RunE:  snapshotSVG,
	}
	headlessFlags(snapshotCmd, 3)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "fireworks.svg", "output file")
	snapshotCmd.Flags().Float64Var(&scale, "scale", 8, "pixels per cell column")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the particle curve as svg")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the samples of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as one json document",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	rootCmd.AddCommand(runCmd, tuiCmd, benchCmd, sweepCmd, scriptCmd, recordCmd,
		snapshotCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file, preset and flag overrides, in that
// order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	commandFlags(cmd)
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}
	if preset != "" {
		if !config.Apply(cfg, preset) {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("columns") {
		cfg.Grid.Columns = columns
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("interval") {
		cfg.Launch.Interval = interval
	}
	if flags.Changed("auto") {
		cfg.Launch.Auto = autoLaunch
	}
	if flags.Changed("hues") {
		cfg.Launch.Hues = hues
	}
	if flags.Changed("fps") {
		cfg.Loop.FPS = fps
	}
	if flags.Changed("tick-sleep") {
		cfg.Loop.TickSleep = tickSleep
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// commandFlags reloads flags several commands bind to the same variable
// with different defaults.
func commandFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Lookup("time") != nil {
		duration, _ = flags.GetFloat64("time")
	}
	if flags.Lookup("dt") != nil {
		dt, _ = flags.GetFloat64("dt")
	}
	if flags.Lookup("out") != nil {
		outPath, _ = flags.GetString("out")
	}
}

// headlessDt is the --dt flag, or one frame at the configured rate.
func headlessDt(cfg *config.Config) float64 {
	if dt > 0 {
		return dt
	}
	return 1 / float64(cfg.Loop.FPS)
}
