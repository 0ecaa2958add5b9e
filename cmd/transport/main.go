package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/samuehae/transport/internal/automation"
	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
	"github.com/samuehae/transport/internal/optim"
	"github.com/samuehae/transport/internal/storage"
	"github.com/samuehae/transport/internal/viz"
)

var (
	dataDir    string
	configFile string
	side       string
	eMin       float64
	eMax       float64
	nEnergies  int
	height     float64
	absorption float64
	workers    int
	// compare and bench
	shape         string
	cmpHeight     float64
	cmpAbsorption float64
	cmpLength     float64
	cmpPoints     int
	cmpSide       string
	cmpEMin       float64
	cmpEMax       float64
	cmpEnergies   int
	benchEnergies int
	// sweep
	param     string
	paramMin  float64
	paramMax  float64
	sweepStep int
	// optimize
	axes     []string
	metric   string
	maximize bool
	// plots and exports
	showReal     bool
	showMomentum bool
	outFile      string
	svgWaves     bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transport",
		Short: "one-dimensional quantum scattering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".transport", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "compute a spectrum and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSpectrum,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot reflection, transmission and loss of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	waveCmd := &cobra.Command{
		Use:   "wave [run_id]",
		Short: "plot the stored wave functions of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotWaves,
	}
	waveCmd.Flags().BoolVar(&showReal, "real", false, "plot Re ψ instead of |ψ|²")
	waveCmd.Flags().BoolVar(&showMomentum, "momentum", false, "also plot the momentum decomposition of each wave")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a spectrum to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a spectrum to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a spectrum or its wave functions to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&svgWaves, "waves", false, "render |ψ|² instead of the spectrum")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSHAPE\tSIDE\tGRID\tENERGIES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g] x %d\t[%g, %g] x %d\n",
					name, p.Potential.Shape, p.Side,
					p.Grid.Start, p.Grid.Stop, p.Grid.Points,
					p.Energies.Min, p.Energies.Max, p.Energies.Points)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare numerical amplitudes with closed forms",
		RunE:  compareAnalytic,
	}
	compareCmd.Flags().StringVar(&shape, "shape", "rectangular", "rectangular (exact) or gaussian (parabolic approximation)")
	compareCmd.Flags().Float64Var(&cmpHeight, "height", 1, "potential height")
	compareCmd.Flags().Float64Var(&cmpAbsorption, "absorption", 0, "absorptive part (rectangular only)")
	compareCmd.Flags().Float64Var(&cmpLength, "length", 1, "barrier length or gaussian width")
	compareCmd.Flags().IntVar(&cmpPoints, "points", 2000, "sampling points")
	compareCmd.Flags().StringVar(&cmpSide, "side", "right", "incidence side")
	compareCmd.Flags().Float64Var(&cmpEMin, "emin", 0.1, "lowest energy")
	compareCmd.Flags().Float64Var(&cmpEMax, "emax", 5, "highest energy")
	compareCmd.Flags().IntVar(&cmpEnergies, "ne", 200, "number of energies")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark scalar and batched solvers",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchEnergies, "ne", 256, "energies per batch")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one potential parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "height", "height, absorption, width, period, start or end")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepStep, "steps", 11, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [preset]",
		Short: "grid search potential parameters for a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addConfigFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&axes, "grid", nil, "search axis name=min:max:steps (repeatable)")
	optimizeCmd.Flags().StringVar(&metric, "metric", "mean_transmission", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "explore a spectrum interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return viz.RunExplorer(cfg, experiment.NewRegistry())
		},
	}
	addConfigFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, waveCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, compareCmd, benchCmd, scenarioCmd, sweepCmd, optimizeCmd, liveCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&side, "side", "right", "incidence side (left or right)")
	cmd.Flags().Float64Var(&eMin, "emin", config.DefaultEMin, "lowest energy")
	cmd.Flags().Float64Var(&eMax, "emax", config.DefaultEMax, "highest energy")
	cmd.Flags().IntVar(&nEnergies, "ne", config.DefaultEnergyPoints, "number of energies")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "potential height")
	cmd.Flags().Float64Var(&absorption, "absorption", 0, "absorptive part of the potential")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
}

// resolveConfig starts from the preset (or defaults), replaces it with the
// config file when given and applies the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		if cfg = config.GetPreset(args[0]); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
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
	if flags.Changed("side") {
		cfg.Side = side
	}
	if flags.Changed("emin") {
		cfg.Energies.Min = eMin
	}
	if flags.Changed("emax") {
		cfg.Energies.Max = eMax
	}
	if flags.Changed("ne") {
		cfg.Energies.Points = nEnergies
	}
	if flags.Changed("height") {
		cfg.Potential.Height = height
	}
	if flags.Changed("absorption") {
		cfg.Potential.Absorption = absorption
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s incidence, %d energies)...\n", cfg.Name, exp.Side(), cfg.Energies.Points)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	printSummary(runID, result)
	return nil
}

func printSummary(runID string, result *experiment.Result) {
	fmt.Println(titleStyle.Render("completed") + dimStyle.Render(fmt.Sprintf(" in %v", result.Elapsed)))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d (dx=%.4g)\n", len(result.Potential), result.Dx)
	fmt.Printf("energies: %d\n", len(result.Energies))
	if len(result.Failures) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("failed energies: %d", len(result.Failures))))
		for _, f := range result.Failures {
			fmt.Printf("  %v\n", f)
		}
	}
	if len(result.WaveFailures) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("failed wave functions: %d", len(result.WaveFailures))))
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
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
	fmt.Fprintln(w, "ID\tSHAPE\tSIDE\tTIME\tPOINTS\tENERGIES\tFAILED\tMEAN T")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Shape,
			run.Side,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Energies,
			len(run.Failed),
			run.Metrics["mean_transmission"],
		)
	}

	return w.Flush()
}

// runArg returns the requested run id or the latest run.
func runArg(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Name != "" {
		fmt.Println(titleStyle.Render(scenario.Name))
	}
	if scenario.Description != "" {
		fmt.Println(dimStyle.Render(scenario.Description))
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), os.Stdout)
	for i, result := range results {
		runID, err := st.Save(scenario.Steps[i].Config, result)
		if err != nil {
			return err
		}
		fmt.Printf("  saved %s (mean T %.4f)\n", runID, result.Metrics["mean_transmission"])
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: param,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  sweepStep,
	}
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry(), os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN T\tMAX LOSS\tRESONANCES\tFAILED\n", strings.ToUpper(param))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.0f\t%d\n", r.ParamValue,
			r.Metrics["mean_transmission"], r.Metrics["max_loss"], r.Metrics["resonances"], r.Failed)
	}
	return w.Flush()
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}

	names := make([]string, len(axes))
	ranges := make([][]float64, len(axes))
	total := 1
	for i, a := range axes {
		if names[i], ranges[i], err = optim.ParseAxis(a); err != nil {
			return err
		}
		total *= len(ranges[i])
	}

	ctx, cancel := signalContext()
	defer cancel()

	goal := "minimizing"
	if maximize {
		goal = "maximizing"
	}
	fmt.Printf("%s %s over %d candidates...\n", goal, metric, total)

	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, experiment.NewRegistry(), metric, maximize)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("best parameters"))
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	fmt.Printf("%s: %.6f\n", metric, val)
	return nil
}
