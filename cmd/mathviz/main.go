package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/automation"
	"github.com/san-kum/mathviz/internal/chart"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/experiment"
	"github.com/san-kum/mathviz/internal/gui"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/viz"
	"github.com/san-kum/mathviz/internal/web"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	storeKind  string
	logLevel   string
	preset     string
	maxSteps   int
	sampleSize int
	seed       int64
	frameRate  int
	stepsPerS  int
	theme      string
	addr       string
	// export
	format string
	// sweep
	sweepSamples []int
	sweepSteps   []int
	repeats      int
	parallel     int
	// montecarlo
	trials    int
	tolerance float64
	// analyze
	bins int
)

// main registers the mathviz commands and starts the terminal UI when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "mathviz",
		Short:        "random walk simulations and diffusion statistics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&storeKind, "store", config.DefaultStore, "run store: file or sqlite")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: trace, debug, info, warn, error")

	addRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().IntVar(&maxSteps, "steps", config.DefaultMaxSteps, "steps per run")
		cmd.Flags().IntVar(&sampleSize, "samples", config.DefaultSampleSize, "number of paths")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = random)")
	}
	addViewFlags := func(cmd *cobra.Command) {
		addRunFlags(cmd)
		cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "display refresh rate")
		cmd.Flags().IntVar(&stepsPerS, "sps", 0, "playback steps per second (0 = one per frame)")
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [project]",
		Short: "interactive terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	addViewFlags(tuiCmd)
	tuiCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	addViewFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui [project]",
		Short: "interactive window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addViewFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run [project]",
		Short: "run a simulation to completion and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve project pages, the run API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "list projects",
		Args:  cobra.NoArgs,
		RunE:  listProjects,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [project]",
		Short: "list available presets for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := config.DefaultProject
			if len(args) > 0 {
				id = args[0]
			}
			names := config.ListPresets(id)
			if len(names) == 0 {
				fmt.Printf("no presets for project: %s\n", id)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSTEPS\tSAMPLES\tSEED\tSPS")
			for _, name := range names {
				p := config.GetPreset(id, name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", name, p.MaxSteps, p.SampleSize, p.Seed, p.StepsPerSecond)
			}
			return w.Flush()
		},
	}

	docsCmd := &cobra.Command{
		Use:   "docs [project]",
		Short: "print project documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.NewRegistry().Lookup(projectArg(args, config.DefaultProject))
			if err != nil {
				return err
			}
			fmt.Println(proj.Docs)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the MSD of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [project]",
		Short: "run a simulation and analyze its diffusion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeProject,
	}
	addRunFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&bins, "bins", 12, "histogram bins")

	sweepCmd := &cobra.Command{
		Use:   "sweep [project]",
		Short: "run a grid of sample sizes and step limits",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntSliceVar(&sweepSamples, "samples", []int{10, 50, 200}, "sample sizes")
	sweepCmd.Flags().IntSliceVar(&sweepSteps, "steps", []int{100}, "step limits")
	sweepCmd.Flags().IntVar(&repeats, "repeats", 1, "runs per grid point")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = GOMAXPROCS)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [project]",
		Short: "repeat a run and compare the final MSD with theory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&tolerance, "tolerance", 0.2, "relative MSD error counted as agreement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, serveCmd, projectsCmd, presetsCmd, docsCmd, listCmd, plotCmd, exportCmd, analyzeCmd, sweepCmd, monteCarloCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func projectArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

// loadConfig resolves defaults, then the config file, then the preset, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Project = args[0]
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if preset != "" {
		if err := cfg.ApplyPreset(cfg.Project, preset); err != nil {
			return nil, err
		}
	}
	if changed("steps") {
		cfg.MaxSteps = maxSteps
	}
	if changed("samples") {
		cfg.SampleSize = sampleSize
	}
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("fps") {
		cfg.FPS = frameRate
	}
	if changed("sps") {
		cfg.StepsPerSecond = stepsPerS
	}
	if changed("theme") {
		cfg.Theme = theme
	}
	if changed("addr") {
		cfg.Addr = addr
	}
	if changed("data") {
		cfg.DataDir = dataDir
	}
	if changed("store") {
		cfg.Store = storeKind
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileLogger writes to <data>/mathviz.log so log lines never land on an
// interactive screen.
func fileLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "mathviz.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLogger(cfg.LogLevel, f), f, nil
}

func openStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	return storage.Open(cfg.Store, cfg.DataDir, log)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	return viz.Run(project.NewRegistry(), viz.Options{
		Params:         cfg.Params(),
		FPS:            cfg.FPS,
		StepsPerSecond: cfg.StepsPerSecond,
		Seed:           cfg.Seed,
		ViewScale:      cfg.ViewScale,
		Theme:          cfg.Theme,
		Log:            log,
		Metrics:        metrics.New(prometheus.NewRegistry()),
		Store:          st,
	}, projectArg(args, ""))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	return gui.Run(project.NewRegistry(), gui.Options{
		Params:         cfg.Params(),
		FPS:            cfg.FPS,
		StepsPerSecond: cfg.StepsPerSecond,
		Seed:           cfg.Seed,
		ViewScale:      cfg.ViewScale,
		Log:            log,
		Store:          st,
	}, projectArg(args, ""))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext()
	defer stop()

	exp, err := experiment.New(project.NewRegistry(), experiment.Config{
		Project:    cfg.Project,
		MaxSteps:   cfg.MaxSteps,
		SampleSize: cfg.SampleSize,
		Seed:       cfg.Seed,
	}, experiment.WithLogger(log))
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%d paths, %d steps)...\n", cfg.Project, cfg.SampleSize, cfg.MaxSteps)
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	runID, err := st.Save(ctx, res.Report())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Duration)
	fmt.Printf("run id: %s\n\n", runID)
	fmt.Println(chart.Render(res.History, 70, 12, "Mean Squared Displacement (MSD)"))
	fmt.Println()
	printSummary(res.Summary, res.Alpha)
	return nil
}

func printSummary(s analysis.Summary, alpha float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", s.Steps)
	fmt.Fprintf(w, "samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "msd\t%.4f\n", s.Observed)
	fmt.Fprintf(w, "theory\t%.4f\n", s.Theoretical)
	fmt.Fprintf(w, "rel error\t%.4f\n", s.RelError)
	fmt.Fprintf(w, "std error\t%.4f\n", s.StdErr)
	fmt.Fprintf(w, "alpha\t%.4f\n", alpha)
	w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := web.NewServer(web.Options{
		Registry: project.NewRegistry(),
		Store:    st,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Log:      log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func listProjects(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDIM\tTAGS")
	for _, p := range project.NewRegistry().List() {
		fmt.Fprintf(w, "%s\t%s\t%dD\t%s\n", p.ID, p.Title, p.Dim, strings.Join(p.Tags, ", "))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	st, err := openStore(cfg, logging.NewLogger(cfg.LogLevel, os.Stderr))
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tTIME\tSTEPS\tSAMPLES\tSEED\tMSD")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Project,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Steps,
			run.MaxSteps,
			run.SampleSize,
			run.Seed,
			run.Metrics["msd"],
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, id string) (*storage.Report, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg, logging.NewLogger(cfg.LogLevel, os.Stderr))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Load(context.Background(), id)
}

func plotRun(cmd *cobra.Command, args []string) error {
	rep, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(rep.History) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", rep.ID)
	fmt.Printf("project: %s\n", rep.Project)
	fmt.Printf("samples: %d, steps: %d\n\n", rep.SampleSize, rep.Steps)
	fmt.Println(chart.Render(rep.History, 80, 15, "Mean Squared Displacement (MSD)"))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	rep, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return storage.WriteJSON(os.Stdout, rep)
	case "csv":
		return storage.WriteCSV(os.Stdout, rep.History)
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}
}

func analyzeProject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)

	exp, err := experiment.New(project.NewRegistry(), experiment.Config{
		Project:    cfg.Project,
		MaxSteps:   cfg.MaxSteps,
		SampleSize: cfg.SampleSize,
		Seed:       cfg.Seed,
	}, experiment.WithLogger(log))
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	sim := exp.Simulation()

	fmt.Printf("diffusion analysis: %s (%d paths, %d steps)\n\n", cfg.Project, cfg.SampleSize, cfg.MaxSteps)
	printSummary(res.Summary, res.Alpha)

	// Final positions along the first axis. Each axis of the lattice walk
	// carries half of the total variance.
	sigma := math.Sqrt(float64(cfg.MaxSteps))
	var finals []float64
	series := make([][]float64, 0, len(sim.Traces()))
	for _, trace := range sim.Traces() {
		pos := make([]float64, len(trace))
		for i, c := range trace {
			pos[i] = c.X
			if sim.Dim() == 1 {
				pos[i] = c.Y
			}
		}
		series = append(series, pos)
		finals = append(finals, pos[len(pos)-1])
	}
	if sim.Dim() == 2 {
		sigma = math.Sqrt(float64(cfg.MaxSteps) / 2)
	}

	dist, err := analysis.Distribution(finals, bins, sigma)
	if err != nil {
		return err
	}
	fmt.Printf("\nfinal position distribution (normal fit, sigma %.2f)\n", sigma)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BIN\tCOUNT\tEXPECTED")
	for _, b := range dist {
		fmt.Fprintf(w, "[%.1f, %.1f)\t%.0f\t%.1f\n", b.Lo, b.Hi, b.Count, b.Expected)
	}
	w.Flush()

	spectrum := analysis.MeanSpectrum(series)
	if len(spectrum) > 2 {
		graph := asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("mean power spectrum of path positions"),
		)
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	ctx, stop := signalContext()
	defer stop()

	sweep := experiment.Sweep{
		Project:     cfg.Project,
		SampleSizes: sweepSamples,
		MaxSteps:    sweepSteps,
		Repeats:     repeats,
		SeedStart:   seed,
	}
	results, err := experiment.RunAll(ctx, project.NewRegistry(), sweep.Configs(), parallel, experiment.WithLogger(log))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tSTEPS\tSEED\tMSD\tTHEORY\tREL ERR\tSTD ERR\tALPHA\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3f\t%.1f\t%.4f\t%.3f\t%.3f\t%v\n",
			r.Config.SampleSize, r.Config.MaxSteps, r.Config.Seed,
			r.Summary.Observed, r.Summary.Theoretical, r.Summary.RelError, r.Summary.StdErr, r.Alpha, r.Duration)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := experiment.Best(results, func(r *experiment.Result) float64 { return r.Summary.RelError })
	if best != nil {
		fmt.Printf("\nclosest to theory: %d paths, %d steps (rel error %.4f)\n",
			best.Config.SampleSize, best.Config.MaxSteps, best.Summary.RelError)
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	res, err := automation.RunMonteCarlo(ctx, project.NewRegistry(), automation.MonteCarloConfig{
		Base: experiment.Config{
			Project:    cfg.Project,
			MaxSteps:   cfg.MaxSteps,
			SampleSize: cfg.SampleSize,
		},
		NumTrials: trials,
		SeedStart: cfg.Seed,
		Tolerance: tolerance,
	})
	if err != nil {
		return err
	}

	fmt.Printf("monte carlo: %s, %d trials of %d paths x %d steps\n\n", cfg.Project, res.Trials, cfg.SampleSize, cfg.MaxSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "theory\t%.3f\n", res.Theory)
	fmt.Fprintf(w, "mean msd\t%.3f\n", res.MeanMSD)
	fmt.Fprintf(w, "std dev\t%.3f\n", res.StdDevMSD)
	fmt.Fprintf(w, "within %.0f%%\t%d\n", tolerance*100, res.WithinTol)
	fmt.Fprintf(w, "outside\t%d\n", res.OutsideTol)
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext()
	defer stop()

	runner := &automation.Runner{Registry: project.NewRegistry(), Store: st, Log: log}
	results, runErr := runner.Run(ctx, sc)

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPROJECT\tSAMPLES\tSTEPS\tMSD\tREL ERR\tRUN ID")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3f\t%.4f\t%s\n",
			i+1, r.Config.Project, r.Config.SampleSize, r.Config.MaxSteps, r.Summary.Observed, r.Summary.RelError, id)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
