package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

var (
	dataDir string
	verbose bool

	from        []float64
	to          []float64
	tension     float64
	friction    float64
	mass        float64
	precision   float64
	stepRate    float64
	maxSubsteps int
	configFile  string
	preset      string
	noSave      bool
	outPath     string
	phase       bool
	fps         int
	every       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springsim",
		Short:         "damped spring animation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a spring to rest and save the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSpring,
	}
	springFlags(runCmd)
	runCmd.Flags().Float64("dt", config.DefaultDt, "elapsed seconds per frame")
	runCmd.Flags().Float64("time", config.DefaultDuration, "maximum simulated seconds")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a spring in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	springFlags(liveCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "drive a spring on the wall clock and print its value",
		Args:  cobra.NoArgs,
		RunE:  watchSpring,
	}
	springFlags(watchCmd)
	watchCmd.Flags().Float64("time", config.DefaultDuration, "wall-clock limit in seconds")
	watchCmd.Flags().IntVar(&fps, "fps", 120, "loop frames per second")
	watchCmd.Flags().IntVar(&every, "every", 6, "print every n sub-steps")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare steppers on the same spring",
		RunE:  compareIntegrators,
	}
	springFlags(compareCmd)
	compareCmd.Flags().Float64("dt", config.DefaultDt, "fixed step")
	compareCmd.Flags().Float64("time", 3, "duration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list spring presets with their settle times",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")
	exportSVGCmd.Flags().BoolVar(&phase, "phase", false, "plot velocity against position")

	rootCmd.AddCommand(runCmd, liveCmd, watchCmd, compareCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func springFlags(cmd *cobra.Command) {
	def := config.DefaultSpring()
	cmd.Flags().Float64SliceVar(&from, "from", []float64{0}, "start value; several numbers make a vector")
	cmd.Flags().Float64SliceVar(&to, "to", []float64{config.DefaultTarget}, "target value; several numbers make a vector")
	cmd.Flags().Float64Var(&tension, "tension", def.Tension, "spring stiffness")
	cmd.Flags().Float64Var(&friction, "friction", def.Friction, "damping")
	cmd.Flags().Float64Var(&mass, "mass", def.Mass, "mass")
	cmd.Flags().Float64Var(&precision, "precision", def.Precision, "rest threshold")
	cmd.Flags().Float64Var(&stepRate, "rate", def.StepRate, "sub-steps per second")
	cmd.Flags().IntVar(&maxSubsteps, "max-substeps", def.MaxSubsteps, "sub-step cap per tick")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset spring parameters")
}

// loadConfig layers the config file, then the preset, then any flags set
// on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("from") || configFile == "" {
		cfg.From = from
	}
	if flags.Changed("to") || configFile == "" {
		cfg.To = to
	}
	if flags.Changed("tension") {
		cfg.Spring.Tension = tension
	}
	if flags.Changed("friction") {
		cfg.Spring.Friction = friction
	}
	if flags.Changed("mass") {
		cfg.Spring.Mass = mass
	}
	if flags.Changed("precision") {
		cfg.Spring.Precision = precision
	}
	if flags.Changed("rate") {
		cfg.Spring.StepRate = stepRate
	}
	if flags.Changed("max-substeps") {
		cfg.Spring.MaxSubsteps = maxSubsteps
	}
	// dt and time have per-command defaults, so read them from the flag set
	if f := flags.Lookup("dt"); f != nil && (f.Changed || configFile == "") {
		cfg.Dt, _ = flags.GetFloat64("dt")
	}
	if f := flags.Lookup("time"); f != nil && (f.Changed || configFile == "") {
		cfg.Duration, _ = flags.GetFloat64("time")
	}
	return cfg, nil
}

func newSpring(cfg *config.Config) (*spring.Spring, error) {
	opts, err := cfg.SpringOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = slog.Default()
	s, err := spring.New(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid spring: %w", err)
	}
	return s, nil
}

func runSpring(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := newSpring(cfg)
	if err != nil {
		return err
	}

	model := s.Model()
	simulator := sim.New()
	for _, m := range metrics.Standard(&model, cfg.Spring.Precision) {
		simulator.AddMetric(m)
	}

	fmt.Printf("running spring %v -> %v...\n", s.From(), s.Target())
	start := time.Now()

	result, err := simulator.Run(context.Background(), s, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true})
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		slog.Warn("run: invalid state", "err", e)
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	if result.Settled {
		fmt.Printf("settled at %v after %.3fs (%d frames)\n", result.Final(), result.SettleTime, result.StepsTaken)
	} else {
		fmt.Printf("not settled after %.3fs, value %v\n", cfg.Duration, result.Final())
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runMetadata(cfg), result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("run id: %s\n", runID)
	}

	printMetrics(result.Metrics)
	fmt.Println()
	fmt.Println(plotPositions(result, "position"))
	return nil
}

func runMetadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:   preset,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		From:     cfg.From,
		To:       cfg.To,
		Spring: storage.SpringParams{
			Tension:     cfg.Spring.Tension,
			Friction:    cfg.Spring.Friction,
			Mass:        cfg.Spring.Mass,
			Precision:   cfg.Spring.Precision,
			StepRate:    cfg.Spring.StepRate,
			MaxSubsteps: cfg.Spring.MaxSubsteps,
		},
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func plotPositions(result *sim.Result, caption string) string {
	if len(result.Positions) < 2 {
		return "(not enough samples to plot)"
	}
	return asciigraph.Plot(result.Positions,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.SpringOptions()
	if err != nil {
		return err
	}

	name := preset
	if name == "" {
		name = "spring"
	}
	m, err := viz.NewModel(opts, name)
	if err != nil {
		return fmt.Errorf("invalid spring: %w", err)
	}
	return viz.Run(m)
}

func watchSpring(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.SpringOptions()
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	if every <= 0 {
		every = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Duration*float64(time.Second)))
	defer cancel()

	interval := time.Duration(integrators.FrameInterval(fps) * float64(time.Second))
	loop := sim.NewLoop(interval, slog.Default())

	start := time.Now()
	frames := 0
	opts.Scheduler = loop
	opts.Logger = slog.Default()
	opts.OnFrame = func(v dynamo.Value, _ *spring.Spring) {
		frames++
		if frames%every == 0 {
			fmt.Printf("%8.3fs  %6d  %v\n", time.Since(start).Seconds(), frames, v)
		}
	}
	opts.OnComplete = func(v dynamo.Value, _ *spring.Spring) {
		fmt.Printf("%8.3fs  %6d  %v (rest)\n", time.Since(start).Seconds(), frames, v)
		cancel()
	}

	s, err := spring.New(opts)
	if err != nil {
		return fmt.Errorf("invalid spring: %w", err)
	}
	loop.Do(func() { s.Start() })

	err = loop.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if !s.Resting() {
		fmt.Printf("stopped before rest at %v\n", s.Value())
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.SpringOptions()
	if err != nil {
		return err
	}

	osc := &physics.Oscillator{Tension: cfg.Spring.Tension, Friction: cfg.Spring.Friction, Mass: cfg.Spring.Mass}
	if err := osc.Validate(); err != nil {
		return err
	}

	// a config file pins the stepper to set against semi; otherwise compare all
	names := args
	switch {
	case len(names) > 0:
	case configFile != "" && cfg.Integrator != "" && cfg.Integrator != "semi":
		names = []string{"semi", cfg.Integrator}
	default:
		names = integrators.Names()
	}

	p0 := dynamo.Phase{Pos: opts.Value.Mean()}
	target := opts.Target.Mean()
	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}

	fmt.Printf("comparing steppers (dt=%.4f, duration=%.1fs, zeta=%.3f)\n\n", cfg.Dt, cfg.Duration, osc.DampingRatio())
	fmt.Printf("%-10s  %-12s  %-12s  %-12s  %-10s\n", "stepper", "final", "overshoot", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 64))

	for _, name := range names {
		integ, err := integrators.Lookup(name)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		s := sim.New()
		for _, m := range []dynamo.Metric{metrics.NewOvershoot(), metrics.NewEnergyDrift(osc)} {
			s.AddMetric(m)
		}

		start := time.Now()
		result, err := s.Trace(context.Background(), osc, integ, p0, target, simCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}
		if len(result.Errors) > 0 {
			fmt.Printf("%-10s  diverged at step %d\n", name, result.StepsTaken)
			continue
		}

		fmt.Printf("%-10s  %12.6f  %12.4f  %12.2e  %10.3f\n",
			name,
			result.Final().Float(),
			result.Metrics["overshoot"],
			result.Metrics["energy_drift"],
			float64(elapsed.Microseconds())/1000,
		)
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	opts := make([]spring.Options, len(names))
	for i, name := range names {
		o, err := config.GetPreset(name).SpringOptions()
		if err != nil {
			return err
		}
		opts[i] = o
	}

	batch := sim.NewBatch(func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewOvershoot()}
	})
	results, err := batch.Run(context.Background(), opts, sim.Config{Dt: config.DefaultDt, Duration: config.DefaultDuration})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTENSION\tFRICTION\tMASS\tZETA\tSETTLE\tOVERSHOOT")
	for i, name := range names {
		p := config.Presets[name]
		osc := physics.Oscillator{Tension: p.Tension, Friction: p.Friction, Mass: p.Mass}
		settle := "-"
		if results[i].Settled {
			settle = fmt.Sprintf("%.2fs", results[i].SettleTime)
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%.3f\t%s\t%.1f%%\n",
			name, p.Tension, p.Friction, p.Mass, osc.DampingRatio(), settle, results[i].Metrics["overshoot"]*100)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tKIND\tSETTLED\tDT")

	for _, run := range runs {
		settled := "no"
		if run.Settled {
			settled = fmt.Sprintf("%.3fs", run.SettleTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Kind,
			settled,
			run.Dt,
		)
	}

	return w.Flush()
}

func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

func loadRun(args []string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	result, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load states %s: %w", runID, err)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("spring: tension %g, friction %g, mass %g\n", meta.Spring.Tension, meta.Spring.Friction, meta.Spring.Mass)
	fmt.Printf("samples: %d\n\n", len(result.Times))

	fmt.Println(plotPositions(result, "position"))
	fmt.Println()
	fmt.Println(asciigraph.Plot(result.Velocities,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("velocity"),
	))

	if meta.Kind == dynamo.KindVector.String() {
		n := result.Values[0].Len()
		series := make([][]float64, n)
		for _, v := range result.Values {
			for i := 0; i < n; i++ {
				series[i] = append(series[i], v.At(i))
			}
		}
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("components"),
		))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args)
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.WriteCSV(os.Stdout, result)
	}
	if err := storage.ExportCSV(outPath, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args)
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.WriteJSON(os.Stdout, *meta, result)
	}
	if err := storage.ExportJSON(outPath, *meta, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args)
	if err != nil {
		return err
	}
	if outPath == "" {
		return export.WriteSVG(os.Stdout, result, phase)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteSVG(f, result, phase); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
