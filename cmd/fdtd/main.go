package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/fdtd1d/internal/analysis"
	"github.com/san-kum/fdtd1d/internal/automation"
	"github.com/san-kum/fdtd1d/internal/config"
	"github.com/san-kum/fdtd1d/internal/experiment"
	"github.com/san-kum/fdtd1d/internal/export"
	"github.com/san-kum/fdtd1d/internal/fdtd"
	"github.com/san-kum/fdtd1d/internal/storage"
	"github.com/san-kum/fdtd1d/internal/sweep"
	"github.com/san-kum/fdtd1d/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	runName    string

	dx            float64
	cells         int
	sourcePos     int
	courant       float64
	sourceField   string
	sourceType    string
	sourceWave    string
	boundary      string
	impedance     float64
	gaussDelay    float64
	gaussWidth    float64
	sineOmega     float64
	sineMagnitude float64
	steps         int
	snapshotEvery int
	probe         int

	stepsPerFrame int
	themeName     string
	snapshotIdx   int
	outPath       string
	exportFields  bool
	hyScale       float64

	sweepParams []string
	sweepMetric string
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fdtd",
		Short:        "one-dimensional FDTD wave lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdtd", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd.Flags())
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset or \"run\")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored Ez snapshots",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&snapshotIdx, "snapshot", -1, "snapshot index (-1 plots an overview)")

	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "plot the source waveform without propagating",
		Args:  cobra.NoArgs,
		RunE:  plotSource,
	}
	addSimFlags(sourceCmd.Flags())

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of the probe series",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd.Flags())
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 2, "iterations per frame")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, "color theme")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the probe series (or snapshots) to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&exportFields, "fields", false, "export field snapshots instead of the probe")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one Ez snapshot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&snapshotIdx, "snapshot", -1, "snapshot index (-1 for the last)")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export one snapshot as a PNG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().IntVar(&snapshotIdx, "snapshot", -1, "snapshot index (-1 for the last)")
	exportPNGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (<run_id>.png if empty, - for stdout)")
	exportPNGCmd.Flags().Float64Var(&hyScale, "hy-scale", 0, "plot Hy scaled by this factor (0 hides it)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid and rank the points by a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd.Flags())
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept parameter as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "residual_energy", "metric to minimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = number of CPUs)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [path]",
		Short: "run a scripted YAML sequence of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCELLS\tSOURCE\tBOUNDARY\tSTEPS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s %s %s @%d\t%s\t%d\n",
					name, p.Cells, p.SourceType, p.SourceWave, p.SourceField, p.SourcePosition, p.Boundary, p.Steps)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default YAML config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, sourceCmd, spectrumCmd, liveCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, exportPNGCmd, sweepCmd, scenarioCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(fs *pflag.FlagSet) {
	def := config.DefaultConfig()
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
	fs.Float64Var(&dx, "dx", def.Dx, "cell size (m)")
	fs.IntVar(&cells, "cells", def.Cells, "number of Ez points")
	fs.IntVar(&sourcePos, "pos", def.SourcePosition, "source index")
	fs.Float64Var(&courant, "courant", def.Courant, "courant factor (mur requires 0.5)")
	fs.StringVar(&sourceField, "field", def.SourceField, "source field: electric|magnetic")
	fs.StringVar(&sourceType, "type", def.SourceType, "source type: soft|hard")
	fs.StringVar(&sourceWave, "wave", def.SourceWave, "waveform: gaussian|sine")
	fs.StringVar(&boundary, "boundary", def.Boundary, "boundary: mur|bare")
	fs.Float64Var(&impedance, "impedance", def.Impedance, "characteristic impedance (ohm)")
	fs.Float64Var(&gaussDelay, "delay", def.Gaussian.Delay, "gaussian delay (steps)")
	fs.Float64Var(&gaussWidth, "width", def.Gaussian.Width, "gaussian width (steps)")
	fs.Float64Var(&sineOmega, "omega", def.Sine.Omega, "sine angular frequency (rad/s, 0 = 0.3/dt)")
	fs.Float64Var(&sineMagnitude, "magnitude", def.Sine.Magnitude, "sine magnitude")
	fs.IntVar(&steps, "steps", def.Steps, "number of iterations")
	fs.IntVar(&snapshotEvery, "every", def.SnapshotEvery, "snapshot interval (0 keeps first and last)")
	fs.IntVar(&probe, "probe", def.Probe, "Ez probe index")
}

// resolveConfig layers defaults, preset, config file and changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
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
	if flags.Changed("dx") {
		cfg.Dx = dx
	}
	if flags.Changed("cells") {
		cfg.Cells = cells
	}
	if flags.Changed("pos") {
		cfg.SourcePosition = sourcePos
	}
	if flags.Changed("courant") {
		cfg.Courant = courant
	}
	if flags.Changed("field") {
		cfg.SourceField = sourceField
	}
	if flags.Changed("type") {
		cfg.SourceType = sourceType
	}
	if flags.Changed("wave") {
		cfg.SourceWave = sourceWave
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("impedance") {
		cfg.Impedance = impedance
	}
	if flags.Changed("delay") {
		cfg.Gaussian.Delay = gaussDelay
	}
	if flags.Changed("width") {
		cfg.Gaussian.Width = gaussWidth
	}
	if flags.Changed("omega") {
		cfg.Sine.Omega = sineOmega
	}
	if flags.Changed("magnitude") {
		cfg.Sine.Magnitude = sineMagnitude
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("every") {
		cfg.SnapshotEvery = snapshotEvery
	}
	if flags.Changed("probe") {
		cfg.Probe = probe
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	expCfg, err := cfg.ExperimentConfig()
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(expCfg)
	if err != nil {
		return err
	}
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(viz.Title(fmt.Sprintf("running %s: %d cells, %s boundary", name, cfg.Cells, cfg.Boundary)))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, expCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  dt: %.4e s  snapshots: %d\n", result.StepsTaken, result.Dt, len(result.Snapshots))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.6g\n", name+":", m[name])
	}
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
	fmt.Fprintln(w, "ID\tTIME\tCELLS\tSTEPS\tSOURCE\tBOUNDARY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s %s @%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cells,
			run.Steps,
			run.SourceType,
			run.SourceWave,
			run.SourcePosition,
			run.Boundary,
		)
	}

	return w.Flush()
}

func loadSnapshots(st *storage.Store, runID string) ([]fdtd.Snapshot, error) {
	snapshots, err := st.LoadFields(runID)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no snapshots in run %s", runID)
	}
	return snapshots, nil
}

func pickSnapshot(snapshots []fdtd.Snapshot, idx int) (fdtd.Snapshot, error) {
	if idx < 0 {
		idx = len(snapshots) - 1
	}
	if idx >= len(snapshots) {
		return fdtd.Snapshot{}, fmt.Errorf("snapshot %d out of range (0..%d)", idx, len(snapshots)-1)
	}
	return snapshots[idx], nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snapshots, err := loadSnapshots(st, runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title("run: " + meta.ID))
	fmt.Printf("boundary: %s\n", meta.Boundary)
	fmt.Printf("snapshots: %d\n\n", len(snapshots))

	var picks []fdtd.Snapshot
	if snapshotIdx >= 0 {
		snap, err := pickSnapshot(snapshots, snapshotIdx)
		if err != nil {
			return err
		}
		picks = []fdtd.Snapshot{snap}
	} else {
		maxPlots := 6
		n := min(len(snapshots), maxPlots)
		for i := range n {
			idx := 0
			if n > 1 {
				idx = i * (len(snapshots) - 1) / (n - 1)
			}
			picks = append(picks, snapshots[idx])
		}
	}

	for _, snap := range picks {
		graph := asciigraph.Plot(snap.Ez,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("Ez at step %d (t=%.3e s)", snap.Step, snap.Time)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("metrics:")
	printMetrics(meta.Metrics)
	return nil
}

func plotSource(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	sim, err := fdtd.New(simCfg)
	if err != nil {
		return err
	}
	samples := sim.Waveform().Samples(cfg.Steps)

	fmt.Println(viz.Title(fmt.Sprintf("%s source, %d steps", cfg.SourceWave, cfg.Steps)))
	graph := asciigraph.Plot(samples,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s source vs step", cfg.SourceWave)),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("dt: %.4e s\n", sim.Dt())
	if period := sim.Waveform().PeriodSteps(); period > 0 {
		fmt.Printf("period: %.2f steps\n", period)
	}
	if f := analysis.DominantFrequency(samples, sim.Dt()); f > 0 {
		fmt.Printf("dominant frequency: %.4e hz\n", f)
	}
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadProbe(runID)
	if err != nil {
		return err
	}
	if len(series.Probe) < 4 {
		return fmt.Errorf("probe series too short: %d samples", len(series.Probe))
	}

	fmt.Println(viz.Title("frequency analysis: " + meta.ID))
	fmt.Printf("probe: Ez[%d], %d samples\n\n", meta.ProbeIndex, len(series.Probe))

	padded := analysis.PadPow2(series.Probe)
	ps := analysis.PowerSpectrum(padded)
	plotData := ps[:max(len(ps)/4, 2)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("probe power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(padded, meta.Dt)
	fmt.Printf("dominant frequency: %.4e hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4e s (%.1f steps)\n", 1/freq, 1/(freq*meta.Dt))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	viz.SetTheme(themeName)
	return viz.Run(simCfg, stepsPerFrame)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportRun(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	if exportFields {
		snapshots, err := loadSnapshots(st, runID)
		if err != nil {
			return err
		}
		return storage.WriteFieldsCSV(os.Stdout, snapshots)
	}

	series, err := st.LoadProbe(runID)
	if err != nil {
		return err
	}
	return storage.WriteProbeCSV(os.Stdout, series)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	snapshots, err := loadSnapshots(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	snap, err := pickSnapshot(snapshots, snapshotIdx)
	if err != nil {
		return err
	}

	svg := export.FieldToSVG(snap.Ez, 800, 300, "#0077be")
	if outPath == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (step %d)\n", outPath, snap.Step)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	snapshots, err := loadSnapshots(storage.New(dataDir), runID)
	if err != nil {
		return err
	}
	snap, err := pickSnapshot(snapshots, snapshotIdx)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s step %d", runID, snap.Step)
	switch outPath {
	case "-":
		return export.WriteFieldPNG(os.Stdout, snap, title, hyScale)
	case "":
		outPath = runID + ".png"
	}
	if err := export.SaveFieldPNG(outPath, snap, title, hyScale); err != nil {
		return err
	}
	fmt.Printf("wrote %s (step %d)\n", outPath, snap.Step)
	return nil
}

func parseSweepParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid --param %q: %w", s, err)
		}
		values = append(values, v)
	}
	return strings.TrimSpace(name), values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseSweepParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	grid, err := sweep.NewGrid(names, ranges)
	if err != nil {
		return err
	}

	build := func(p sweep.Point) (experiment.Config, error) {
		cfg := *base
		for name, v := range p {
			if err := cfg.Set(name, v); err != nil {
				return experiment.Config{}, err
			}
		}
		return cfg.ExperimentConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points := grid.Points()
	fmt.Println(viz.Title(fmt.Sprintf("sweeping %d points over %v", len(points), names)))
	start := time.Now()

	outcomes, err := grid.Run(ctx, build, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := append([]string{}, names...)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(append(header, sweepMetric), "\t")))
	for _, o := range outcomes {
		cols := make([]string, 0, len(names)+1)
		for _, name := range names {
			cols = append(cols, strconv.FormatFloat(o.Params[name], 'g', 6, 64))
		}
		if o.Err != nil {
			cols = append(cols, "error: "+o.Err.Error())
		} else {
			cols = append(cols, fmt.Sprintf("%.6g", o.Metrics[sweepMetric]))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	best, ok := sweep.Best(outcomes, sweepMetric)
	if !ok {
		return fmt.Errorf("no successful point reported %s", sweepMetric)
	}
	fmt.Printf("best %s: %.6g at %v\n", sweepMetric, best.Metrics[sweepMetric], best.Params)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	title := scenario.Name
	if title == "" {
		title = args[0]
	}
	fmt.Println(viz.Title("scenario: " + title))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(ctx, scenario, st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSTEPS\tRESIDUAL\tMAX FIELD")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4g\t%.4g\n",
			r.Name, r.RunID, r.Result.StepsTaken,
			r.Result.Metrics["residual_energy"], r.Result.Metrics["max_field"])
	}
	return w.Flush()
}
