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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/aquasim/internal/config"
	"github.com/san-kum/aquasim/internal/experiment"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/logging"
	"github.com/san-kum/aquasim/internal/optim"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/report"
	"github.com/san-kum/aquasim/internal/storage"
)

var (
	settingsFile string
	settings     Settings
	logger       = logging.Nop()
	logFile      *os.File

	preset         string
	configFile     string
	dragTable      string
	pressure       float64
	airVolume      float64
	waterVolume    float64
	nozzle         float64
	dt             float64
	structuralMass float64
	payloadMass    float64
	frontalArea    float64
	maxSteps       int
	noSave         bool
	showPlot       bool

	outFile      string
	thrustReport bool
	plotField    string
	svgFile      string
	plotHeight   int
	plotWidth    int

	listScenario  string
	listByApogee  bool
	listLimit     int
	minApogee     float64
	sweepParams   []string
	sweepMetric   string
	sweepMinimize bool
	sweepWorkers  int
	sweepTop      int
	benchRuns     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aquasim",
		Short:        "water rocket flight simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, viper.New(), settingsFile)
			if err != nil {
				return err
			}
			settings = s

			opts := logging.Options{Out: os.Stderr, Level: s.LogLevel, Pretty: s.Pretty}
			if s.LogFile != "" {
				f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				logFile = f
				opts.File = f
			}
			logger = logging.New(opts)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
	}

	rootCmd.PersistentFlags().String("data", ".aquasim", "data directory")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", true, "human readable logs")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (yaml, toml or json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a launch and store the run",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot altitude after the run")

	thrustCmd := &cobra.Command{
		Use:   "thrust",
		Short: "compute the thrust profile only",
		Args:  cobra.NoArgs,
		RunE:  runThrust,
	}
	addScenarioFlags(thrustCmd)
	thrustCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the profile to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&listScenario, "scenario", "", "only runs of this scenario")
	listCmd.Flags().BoolVar(&listByApogee, "by-apogee", false, "order by apogee height")
	listCmd.Flags().Float64Var(&minApogee, "min-apogee", 0, "minimum apogee height (m)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum rows")

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "show a stored run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "altitude", "altitude, velocity, acceleration or mach")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write an SVG altitude chart")
	plotCmd.Flags().IntVar(&plotHeight, "height", report.DefaultPlotHeight, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", report.DefaultPlotWidth, "plot width")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "print the trajectory report of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&thrustReport, "thrust", false, "print the thrust profile instead")
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to this file")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to this file")

	deleteCmd := &cobra.Command{
		Use:   "delete [run-id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write a scenario file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVarP(&preset, "preset", "p", config.DefaultName, "preset to start from")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search scenario parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "max_altitude", "metric to rank by")
	sweepCmd.Flags().BoolVar(&sweepMinimize, "minimize", false, "minimize the metric")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel workers (0 = one per CPU)")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 10, "trials to print")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time repeated runs of a scenario",
		Args:  cobra.NoArgs,
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 20, "number of runs")

	rootCmd.AddCommand(runCmd, thrustCmd, listCmd, showCmd, plotCmd, exportCSVCmd,
		exportJSONCmd, deleteCmd, presetsCmd, initCmd, sweepCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&preset, "preset", "p", config.DefaultName, "scenario preset")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "scenario file (overrides preset)")
	cmd.Flags().StringVar(&dragTable, "drag-table", "", "drag table CSV")
	cmd.Flags().Float64Var(&pressure, "pressure", 0, "initial tank pressure (Pa)")
	cmd.Flags().Float64Var(&airVolume, "air-volume", 0, "initial air volume (m^3)")
	cmd.Flags().Float64Var(&waterVolume, "water-volume", 0, "initial water volume (m^3)")
	cmd.Flags().Float64Var(&nozzle, "nozzle", 0, "nozzle diameter (m)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep for both phases (s)")
	cmd.Flags().Float64Var(&structuralMass, "structural-mass", 0, "structural mass (kg)")
	cmd.Flags().Float64Var(&payloadMass, "payload-mass", 0, "payload mass (kg)")
	cmd.Flags().Float64Var(&frontalArea, "frontal-area", 0, "frontal area (m^2)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit per loop")
}

// scenario resolves the preset, then the scenario file, then explicit flags.
func scenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("drag-table") {
		cfg.DragTable = dragTable
	}
	if flags.Changed("pressure") {
		cfg.Propulsion.AirPressure = pressure
	}
	if flags.Changed("air-volume") {
		cfg.Propulsion.AirVolume = airVolume
	}
	if flags.Changed("water-volume") {
		cfg.Propulsion.WaterVolume = waterVolume
	}
	if flags.Changed("nozzle") {
		cfg.Propulsion.NozzleDiameter = nozzle
	}
	if flags.Changed("dt") {
		cfg.Propulsion.Dt = dt
		cfg.Flight.Dt = dt
	}
	if flags.Changed("structural-mass") {
		cfg.Rocket.StructuralMass = structuralMass
	}
	if flags.Changed("payload-mass") {
		cfg.Rocket.PayloadMass = payloadMass
	}
	if flags.Changed("frontal-area") {
		cfg.Rocket.FrontalArea = frontalArea
	}
	if flags.Changed("max-steps") {
		cfg.Limits.MaxSteps = maxSteps
		cfg.Flight.MaxSteps = maxSteps
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() (*storage.Store, error) {
	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := scenario(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := experiment.Run(ctx, cfg, experiment.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println(report.RenderSummary(report.Summarize(res)))

	if showPlot {
		fmt.Println()
		fmt.Println(report.Plot(res.Flight.Series(flight.Altitude), "altitude (m) vs step", 0, 0))
	}

	if noSave {
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.Save(res)
	if err != nil {
		return err
	}
	logger.Info().Str("run", runID).Str("dir", st.Dir(runID)).Msg("run stored")
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func runThrust(cmd *cobra.Command, args []string) error {
	cfg, err := scenario(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	profile, err := propulsion.New(cfg.Propulsion, cfg.Constants, cfg.Limits).Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug().Int("samples", profile.Len()).Float64("burn_time", profile.BurnTime()).Msg("thrust profile")

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := report.WriteThrustProfile(w, profile); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Catalog().Find(storage.Query{
		Scenario:    listScenario,
		MinAltitude: minApogee,
		ByAltitude:  listByApogee,
		Limit:       listLimit,
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tPRESSURE\tWATER\tBURN\tAPOGEE\tVMAX")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fkPa\t%.2fL\t%.2fs\t%.2fm\t%.2fm/s\n",
			run.ID,
			run.Scenario,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.AirPressure/1000,
			run.WaterVolume*1000,
			run.BurnTime,
			run.MaxAltitude,
			run.MaxVelocity,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("steps: %d\n\n", meta.Steps)
	fmt.Println(report.RenderSummary(meta.Summary))
	return nil
}

var plotFields = map[string]func(flight.TrajectoryPoint) float64{
	"altitude":     flight.Altitude,
	"velocity":     flight.Velocity,
	"acceleration": flight.Acceleration,
	"mach":         func(p flight.TrajectoryPoint) float64 { return p.Mach },
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	field, ok := plotFields[plotField]
	if !ok {
		return fmt.Errorf("unknown field: %s", plotField)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	points, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = field(p)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("points: %d\n\n", len(points))
	fmt.Println(report.Plot(data, plotField+" vs step", plotHeight, plotWidth))

	if svgFile != "" {
		svg := report.TrajectorySVG(points, 800, 400, "#00ccff")
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info().Str("file", svgFile).Msg("svg written")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	w, closeFn, err := output()
	if err != nil {
		return err
	}

	if thrustReport {
		err = st.CopyThrustProfile(w, args[0])
	} else {
		err = st.CopyReport(w, args[0])
	}
	if err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := st.ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(args[0]); err != nil {
		return err
	}
	logger.Info().Str("run", args[0]).Msg("run deleted")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRESSURE\tAIR\tWATER\tNOZZLE\tDRY MASS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0fkPa\t%.3fL\t%.3fL\t%.1fmm\t%.3fkg\n",
			name,
			p.Propulsion.AirPressure/1000,
			p.Propulsion.AirVolume*1000,
			p.Propulsion.WaterVolume*1000,
			p.Propulsion.NozzleDiameter*1000,
			p.ResolvedRocket().DryMass(),
		)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info().Str("file", args[0]).Str("preset", preset).Msg("scenario written")
	return nil
}

// parseRange reads name=lo:hi:n.
func parseRange(s string) (string, []float64, error) {
	name, bounds, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid param %q: want name=lo:hi:n", s)
	}
	parts := strings.Split(bounds, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid range %q: want lo:hi:n", bounds)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid range %q: %w", bounds, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid range %q: %w", bounds, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n <= 0 {
		return "", nil, fmt.Errorf("invalid range %q: bad count", bounds)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("no --param given (available: %v)", optim.ListParams())
	}

	cfg, err := scenario(cmd)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, p := range sweepParams {
		name, values, err := parseRange(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges).
		WithWorkers(sweepWorkers).
		WithOptions(experiment.WithLogger(logger))

	start := time.Now()
	trials, best, err := gs.Search(ctx, cfg, sweepMetric, !sweepMinimize)
	if err != nil {
		return err
	}
	logger.Info().Int("trials", len(trials)).Dur("elapsed", time.Since(start)).Msg("sweep complete")

	ranked := append([]optim.Trial(nil), trials...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if sweepMinimize {
			return a.Value < b.Value
		}
		return a.Value > b.Value
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := append([]string{"#"}, names...)
	header = append(header, strings.ToUpper(sweepMetric))
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, t := range ranked {
		if sweepTop > 0 && i >= sweepTop {
			break
		}
		row := []string{strconv.Itoa(i + 1)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(t.Params[name], 'g', 6, 64))
		}
		if t.Err != nil {
			row = append(row, "error: "+t.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(t.Value, 'f', 4, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best != nil {
		keys := make([]string, 0, len(best.Params))
		for k := range best.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%g", k, best.Params[k])
		}
		fmt.Printf("\nbest: %s -> %s %.4f\n", strings.Join(parts, " "), sweepMetric, best.Value)
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := scenario(cmd)
	if err != nil {
		return err
	}
	if benchRuns <= 0 {
		return fmt.Errorf("runs must be positive")
	}

	ctx, cancel := signalContext()
	defer cancel()

	quiet := experiment.WithLogger(zerolog.Nop())
	var res *experiment.Result
	start := time.Now()
	for i := 0; i < benchRuns; i++ {
		res, err = experiment.Run(ctx, cfg, quiet)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("runs: %d\n", benchRuns)
	fmt.Printf("thrust samples: %d\n", res.Profile.Len())
	fmt.Printf("flight steps: %d\n", res.Flight.Steps)
	fmt.Printf("total: %v\n", elapsed)
	fmt.Printf("per run: %v\n", elapsed/time.Duration(benchRuns))
	return nil
}
