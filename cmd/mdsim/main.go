package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/store"
	"github.com/san-kum/mdsim/internal/tui"
	"github.com/san-kum/mdsim/internal/tuner"
)

var (
	dataDir    string
	configFile string
	preset     string

	steps       int
	dt          float64
	kt          float64
	rBuff       float64
	checkPeriod int
	index       string
	integrator  string
	seed        int64
	sampleEvery int
	saveRun     bool
	exportPath  string
	plotRDF     bool

	// tune sweep parameters
	rMin             float64
	rMax             float64
	jumps            int
	warmupSteps      int
	measureSteps     int
	applyCheckPeriod bool
	saveTune         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdsim",
		Short: "molecular dynamics with tunable neighbor lists",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 10000, "number of steps")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 100, "thermo log interval in steps")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist run artifacts")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write the final configuration to a JSON file")
	runCmd.Flags().BoolVar(&plotRDF, "rdf", false, "plot the radial distribution function after the run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "sweep r_buff for throughput",
		RunE:  runTune,
	}
	addSystemFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&rMin, "rmin", 0.05, "smallest buffer radius")
	tuneCmd.Flags().Float64Var(&rMax, "rmax", 1.05, "largest buffer radius")
	tuneCmd.Flags().IntVar(&jumps, "jumps", 11, "number of sweep samples")
	tuneCmd.Flags().IntVar(&warmupSteps, "warmup", 200, "untimed steps per sample")
	tuneCmd.Flags().IntVar(&measureSteps, "measure", 1000, "timed steps per sample")
	tuneCmd.Flags().BoolVar(&applyCheckPeriod, "apply-check-period", false, "also apply the derived check period")
	tuneCmd.Flags().BoolVar(&saveTune, "save", false, "persist the sweep report")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live dashboard",
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().IntVar(&steps, "steps", 0, "stop after this many steps (0 runs until quit)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot thermo quantities of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in system presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, tuneCmd, liveCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")
	cmd.Flags().Float64Var(&dt, "dt", 0.005, "timestep")
	cmd.Flags().Float64Var(&kt, "kt", 0.2, "thermostat temperature")
	cmd.Flags().Float64Var(&rBuff, "rbuff", 0.4, "neighbor list buffer radius")
	cmd.Flags().IntVar(&checkPeriod, "check-period", 1, "steps between staleness checks")
	cmd.Flags().StringVar(&index, "index", "cell", "spatial index: cell, stencil or tree")
	cmd.Flags().StringVar(&integrator, "integrator", "langevin", "integrator: langevin or nve")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
}

// loadSystem resolves preset, config file and flag overrides, in that
// order, and returns the config with a short name for reports.
func loadSystem(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("kt") {
		cfg.KT = kt
	}
	if cmd.Flags().Changed("rbuff") {
		cfg.RBuff = rBuff
	}
	if cmd.Flags().Changed("check-period") {
		cfg.CheckPeriod = checkPeriod
	}
	if cmd.Flags().Changed("index") {
		cfg.Index = index
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, name, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	rec := store.NewRecorder(sampleEvery)
	s.AddObserver(rec)
	drift := metrics.NewEnergyDrift()
	s.AddObserver(drift)

	ctx, stop := interruptContext()
	defer stop()

	fmt.Printf("system: %s  particles: %d  index: %s\n", name, s.Snapshot().N(), cfg.Index)

	start := time.Now()
	runErr := s.Run(ctx, steps)
	elapsed := time.Since(start).Seconds()
	interrupted := errors.Is(runErr, context.Canceled)
	if runErr != nil && !interrupted {
		return runErr
	}

	throughput := 0.0
	if elapsed > 0 {
		throughput = float64(s.Steps()) / elapsed
	}
	stats := s.PopStats()

	if interrupted {
		fmt.Printf("interrupted after %d steps\n", s.Steps())
	}
	fmt.Printf("steps: %d  wall: %.2fs  throughput: %.0f steps/s\n", s.Steps(), elapsed, throughput)
	fmt.Printf("PE: %.3f  T: %.3f  energy drift: %.2e\n", s.PotentialEnergy(), s.Temperature(), drift.Value())
	fmt.Printf("rebuilds: %d normal, %d forced, %d dangerous\n",
		stats.NormalRebuilds, stats.ForcedRebuilds, stats.DangerousBuilds)
	fmt.Printf("neighbors/particle: %.1f  mean rebuild interval: %.1f steps\n",
		stats.Neighbors.Mean, meanInterval(stats.Intervals))
	if stats.DangerousBuilds > 0 {
		fmt.Println("warning: dangerous builds detected, lower check-period or raise rbuff")
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.SaveRun(store.RunMetadata{
			Preset:      name,
			Particles:   s.Snapshot().N(),
			Index:       cfg.Index,
			RBuff:       cfg.RBuff,
			CheckPeriod: cfg.CheckPeriod,
			Dt:          cfg.Dt,
			KT:          cfg.KT,
			Seed:        cfg.Seed,
			Steps:       s.Steps(),
			Throughput:  throughput,
			Rebuilds: store.RebuildCounts{
				Normal:    stats.NormalRebuilds,
				Forced:    stats.ForcedRebuilds,
				Dangerous: stats.DangerousBuilds,
			},
		}, rec.Samples())
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", id)
	}

	if exportPath != "" {
		if err := store.ExportSnapshot(exportPath, s.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("exported configuration to %s\n", exportPath)
	}

	if plotRDF {
		box := s.Snapshot().Box
		rMax := box.L[0] / 2
		if rMax > 4 {
			rMax = 4
		}
		rdf, err := metrics.ComputeRDF(s.Snapshot(), rMax, 60)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(rdf.G,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("g(r) up to r = %.2f", rMax)),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	fmt.Printf("system: %s  particles: %d  index: %s\n", name, s.Snapshot().N(), cfg.Index)
	fmt.Printf("sweeping r_buff over [%.2f, %.2f], %d samples\n\n", rMin, rMax, jumps)

	report, err := tuner.New(s).Tune(ctx, tuner.Params{
		RMin:             rMin,
		RMax:             rMax,
		Jumps:            jumps,
		WarmupSteps:      warmupSteps,
		MeasureSteps:     measureSteps,
		ApplyCheckPeriod: applyCheckPeriod,
	})
	if err != nil {
		return err
	}

	if len(report.Samples) > 1 {
		data := make([]float64, len(report.Samples))
		for i, sample := range report.Samples {
			data[i] = sample.Throughput
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("steps/s over r_buff [%.2f, %.2f]", rMin, rMax)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R_BUFF\tSTEPS/S\tMIN_INTERVAL\t")
	for _, sample := range report.Samples {
		mark := ""
		if sample.RBuff == report.OptimalRBuff {
			mark = "*"
		}
		fmt.Fprintf(w, "%.3f\t%.0f\t%d\t%s\n", sample.RBuff, sample.Throughput, sample.MinInterval, mark)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if report.Interrupted {
		fmt.Println("\nsweep interrupted, report covers completed samples only")
	}
	fmt.Printf("\noptimal r_buff: %.3f  max safe check period: %d steps\n",
		report.OptimalRBuff, report.MaxCheckPeriod)
	if applyCheckPeriod {
		fmt.Println("applied r_buff and check period to the scheduler")
	} else {
		fmt.Println("applied r_buff to the scheduler")
	}

	if saveTune {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.SaveTuning(store.TuningRecord{
			Preset:    name,
			Particles: s.Snapshot().N(),
			Index:     cfg.Index,
			Report:    report,
		})
		if err != nil {
			return err
		}
		fmt.Printf("saved sweep %s\n", id)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%d particles, %s index)", name, s.Snapshot().N(), cfg.Index)
	return tui.NewLive(s, title, steps).Run()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tN\tINDEX\tR_BUFF\tSTEPS\tSTEPS/S\tDANGEROUS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.2f\t%d\t%.0f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Index,
			run.RBuff,
			run.Steps,
			run.Throughput,
			run.Rebuilds.Dangerous,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadThermo(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s  particles: %d\n", meta.Preset, meta.Particles)
	fmt.Printf("samples: %d\n\n", len(samples))

	quantities := []struct {
		caption string
		value   func(sim.StepInfo) float64
	}{
		{"potential energy", func(s sim.StepInfo) float64 { return s.Potential }},
		{"kinetic energy", func(s sim.StepInfo) float64 { return s.Kinetic }},
		{"temperature", func(s sim.StepInfo) float64 {
			if meta.Particles == 0 {
				return 0
			}
			return 2 * s.Kinetic / (3 * float64(meta.Particles))
		}},
	}

	for _, q := range quantities {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = q.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(q.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tINDEX\tR_BUFF\tKT\tDT")
	for _, name := range names {
		p := config.GetPreset(name)
		n := p.Lattice.N * p.Lattice.N * p.Lattice.N
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%.2f\t%.4f\n",
			name, n, p.Index, p.RBuff, p.KT, p.Dt)
	}
	return w.Flush()
}

func meanInterval(intervals []int) float64 {
	if len(intervals) == 0 {
		return 0
	}
	sum := 0
	for _, iv := range intervals {
		sum += iv
	}
	return float64(sum) / float64(len(intervals))
}
