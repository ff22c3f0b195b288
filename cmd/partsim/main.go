package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/optim"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/tui"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	seed        uint32
	dt          float64
	ticks       int
	scene       string
	count       int
	autoAdd     bool
	sampleEvery int
	metricNames []string
	integrator  string
	watch       int

	jsonOut  string
	svgOut   string
	benchOut string
	theme    string

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	speedLimit float64

	column     string
	tuneParams []string
	tuneMetric string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "2d particle simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addWorldFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "pick a preset and watch it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation headless and store the result",
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "ticks between samples")
	runCmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator (euler, euler-parallel)")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also write the run and final particles to this JSON file")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "also write the final frame to this SVG file")
	runCmd.Flags().IntVar(&watch, "watch", 0, "draw the world in the terminal at this many frames per second")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "run without storing and draw the final frame",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	addWorldFlags(snapshotCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write the particle count series to this SVG file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "grow the population until a tick gets too slow",
		RunE:  bench,
	}
	addWorldFlags(benchCmd)
	benchCmd.Flags().StringVar(&benchOut, "out", "benchmark.txt", "report file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range experiment.NewRegistry().ListScenes() {
				fmt.Printf("  %s\n", s)
			}
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep friction, max_speed, min_speed or max_direction",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one scene under many seeds in parallel",
		RunE:  runEnsemble,
	}
	addWorldFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&trials, "trials", 8, "number of seeds")
	ensembleCmd.Flags().Float64Var(&speedLimit, "speed-limit", 0, "speed above which a trial counts as unstable (default 10x max speed)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "kinetic_energy", "series to analyse")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search kernel parameters for the best metric value",
		RunE:  tune,
	}
	addWorldFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "kinetic_energy", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer larger metric values")

	rootCmd.AddCommand(liveCmd, menuCmd, runCmd, snapshotCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		benchCmd, presetsCmd, scenesCmd, scenarioCmd, sweepCmd, ensembleCmd, analyzeCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "partsim",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
}

func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	cmd.Flags().StringVar(&scene, "scene", config.DefaultScene, "starting scene")
	cmd.Flags().IntVar(&count, "count", 0, "scene size (default max particle count)")
	cmd.Flags().BoolVar(&autoAdd, "auto-add", false, "spawn a random batch before every tick")
}

// loadConfig layers the defaults, the preset, the config file and finally
// any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("scene") {
		cfg.Scene = scene
		cfg.StartingParticles = true
	}
	if flags.Changed("auto-add") {
		cfg.AutoAddParticles = autoAdd
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func experimentConfig(cmd *cobra.Command, cfg *config.Config) experiment.Config {
	ecfg := experiment.FromFile(cfg)
	if cmd.Flags().Changed("count") {
		ecfg.Count = count
	}
	return ecfg
}

func setupExperiment(cmd *cobra.Command) (*config.Config, *experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ecfg := experimentConfig(cmd, cfg)
	if cmd.Flags().Lookup("metrics") != nil {
		ecfg.Metrics = metricNames
	}
	if cmd.Flags().Lookup("sample-every") != nil {
		ecfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("integrator") {
		ecfg.Integrator = integrator
	}

	exp := experiment.New(ecfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		viz.SetTheme(theme)
	}
	title := exp.Config().Scene
	if preset != "" {
		title = preset
	}
	return viz.RunLive(exp.World(), cfg.Dt, title, cfg.AutoAddParticles)
}

func runInfo(exp *experiment.Experiment) storage.RunInfo {
	ecfg := exp.Config()
	return storage.RunInfo{
		Scene:      ecfg.Scene,
		Seed:       ecfg.Seed,
		Dt:         ecfg.Dt,
		Ticks:      ecfg.Ticks,
		Integrator: ecfg.Integrator,
		Kernel:     ecfg.Kernel,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	_, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	info := runInfo(exp)
	log.Info("running simulation", "scene", info.Scene, "seed", info.Seed, "ticks", info.Ticks)
	if watch > 0 {
		r := tui.NewLiveRenderer(os.Stdout, info.Scene, exp.World().Config(), watch)
		exp.World().AddObserver(r)
		r.Start()
		defer r.Stop()
	}
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted", "ticks", result.TicksTaken, "err", err)
	}
	for _, e := range result.Errors {
		log.Error("simulation failed", "err", e)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	w := exp.World()
	if jsonOut != "" {
		particles := slices.Clone(w.Pool().Particles())
		if err := storage.ExportJSON(jsonOut, info, result, particles); err != nil {
			return err
		}
		log.Info("exported", "path", jsonOut)
	}
	if svgOut != "" {
		if err := writeSnapshot(svgOut, w); err != nil {
			return err
		}
		log.Info("snapshot written", "path", svgOut)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("particles: %d (%d bytes)\n", w.Len(), w.Bytes())
	fmt.Printf("collisions: %d  bonds: %d  border hits: %d\n", result.Stats.Collisions, result.Stats.Bonds, result.Stats.BorderHits)
	if sp := analysis.Speeds(w.Pool(), 10); sp.Counts != nil {
		fmt.Printf("speed: mean %.1f  sd %.1f  max %.1f\n", sp.Mean, sp.StdDev, sp.Max)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func writeSnapshot(path string, w *sim.World) error {
	cfg := w.Config()
	return os.WriteFile(path, []byte(export.SnapshotToSVG(w.Snapshot(), cfg.Width, cfg.Height)), 0644)
}

func snapshot(cmd *cobra.Command, args []string) error {
	_, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	if _, err := exp.Run(ctx); err != nil {
		return err
	}
	if err := writeSnapshot(args[0], exp.World()); err != nil {
		return err
	}
	fmt.Printf("%d particles drawn to %s\n", exp.World().Len(), args[0])
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tDT\tPARTICLES\tBONDS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Info.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Stats.Ticks,
			run.Info.Dt,
			run.Particles,
			run.Stats.Bonds,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(series.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Info.Scene)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, name := range series.Names() {
		data := series.Columns[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		svg := export.SeriesToSVG(series.Times, series.Columns["count"], 800, 300, "#00ff88")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		log.Info("plot written", "path", svgOut)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSeriesCSV(os.Stdout, series.Result(meta))
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, meta.Info, series.Result(meta), nil)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	b := experiment.NewBenchmark(cfg.Benchmark.MaxSPF, cfg.Benchmark.MaxTicks, cfg.Dt)
	log.Info("benchmarking", "max_spf", b.MaxSPF, "budget", cfg.Simulation.MemoryBudget)
	report, err := b.Run(ctx, exp.World())
	if err != nil {
		return err
	}

	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}
	f, err := os.Create(benchOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteText(f); err != nil {
		return err
	}
	log.Info("benchmark done", "reason", report.Reason, "ticks", report.Ticks, "out", benchOut)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	res, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n\n", res.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tPARTICLES\tCOLLISIONS\tBONDS")
	for i, step := range res.Steps {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", i, step.Action, step.Particles, step.Tick.Collisions, step.Tick.Bonds)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nticks: %d  spawned: %d  rejected: %d\n", res.Stats.Ticks, res.Stats.Spawned, res.Stats.Rejected)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg := experimentConfig(cmd, cfg)
	if ecfg.Seed == 0 {
		ecfg.Seed = dynamo.SeedFromTime()
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Scene:     ecfg.Scene,
		Count:     ecfg.Count,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Ticks:     ecfg.Ticks,
		Dt:        ecfg.Dt,
		Seed:      ecfg.Seed,
		Base:      ecfg.Kernel,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN_KE\tFINAL_KE\tBONDED\tCOLLISIONS\tPARTICLES\n", strings.ToUpper(args[0]))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.2f\t%.2f\t%.2f\t%d\t%d\n", r.ParamValue, r.MeanEnergy, r.FinalEnergy, r.BondFraction, r.Collisions, r.Particles)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ecfg := experimentConfig(cmd, cfg)
	if ecfg.Seed == 0 {
		ecfg.Seed = dynamo.SeedFromTime()
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Kernel:    ecfg.Kernel,
		Scene:     ecfg.Scene,
		Count:     ecfg.Count,
		NumTrials: trials,
		Ticks:     ecfg.Ticks,
		Dt:        ecfg.Dt,
		Seed:      ecfg.Seed,
		MaxSpeed:  speedLimit,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tPARTICLES\tBONDS\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%v\n", r.TrialID, r.Seed, r.Particles, r.Bonds, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data, ok := series.Columns[column]
	if !ok {
		return fmt.Errorf("run %s has no %s series (have %v)", meta.ID, column, series.Names())
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data")
	}

	ps, err := analysis.PowerSpectrum(data, series.Times[1]-series.Times[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Info.Scene)

	graph := asciigraph.Plot(ps.Power,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := ps.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

// parseGrid reads "name=v1,v2,..." flags.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base := experimentConfig(cmd, cfg)
	if base.Seed == 0 {
		base.Seed = dynamo.SeedFromTime()
	}
	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		ecfg := base
		for name, v := range params {
			if err := automation.SetParam(&ecfg.Kernel, name, v); err != nil {
				return nil, err
			}
		}
		ecfg.Metrics = []string{tuneMetric}
		exp := experiment.New(ecfg)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}

	g := optim.NewGridSearch(names, ranges)
	if maximize {
		g.Maximize()
	}

	ctx, cancel := interruptible()
	defer cancel()

	best, trials, err := g.Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, tr := range trials {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = strconv.FormatFloat(tr.Params[name], 'g', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%.4f\n", strings.Join(row, "\t"), tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4f at %v\n", tuneMetric, best.Value, best.Params)
	return nil
}
