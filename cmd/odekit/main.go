package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calebmah/odekit/internal/analysis"
	"github.com/calebmah/odekit/internal/config"
	"github.com/calebmah/odekit/internal/integrators"
	"github.com/calebmah/odekit/internal/models"
	"github.com/calebmah/odekit/internal/runner"
	"github.com/calebmah/odekit/internal/storage"
	"github.com/calebmah/odekit/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	stepper    string
	end        float64
	framerate  float64
	internalDt float64
	tolerance  float64
	stopAfter  float64
	showPlot   bool
	noSave     bool
	watch      string
	series     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odekit",
		Short: "modular ODE simulation toolkit",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odekit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModel,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&stepper, "stepper", "", "stepper: euler, rk4 or rk45")
	runCmd.Flags().Float64Var(&end, "end", 0, "end time")
	runCmd.Flags().Float64Var(&framerate, "framerate", 0, "output frames per second")
	runCmd.Flags().Float64Var(&internalDt, "dt", 0, "internal step size")
	runCmd.Flags().Float64Var(&tolerance, "tol", 0, "adaptive error tolerance")
	runCmd.Flags().Float64Var(&stopAfter, "stop-after", 0, "raise the stop flag at this time")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the result after the run")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the run")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a model with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&stepper, "stepper", "", "stepper: euler, rk4 or rk45")
	liveCmd.Flags().Float64Var(&end, "end", 0, "end time")
	liveCmd.Flags().Float64Var(&framerate, "framerate", 0, "output frames per second")
	liveCmd.Flags().StringVar(&watch, "watch", "", "series to chart (default: the model's plot variable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "", "column to plot (default: all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&series, "series", "", "column to analyze (default: all)")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models and presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range models.Names() {
				fmt.Println(name)
				for _, p := range config.ListPresets(name) {
					fmt.Printf("  preset: %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, analyzeCmd, modelsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config: file or preset first, then
// positional model name, then flag overrides.
func loadConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		if len(args) == 0 {
			return nil, fmt.Errorf("--preset requires a model argument")
		}
		p := config.GetPreset(args[0], preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for model %q", preset, args[0])
		}
		cfg = p
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}
	if stepper != "" {
		cfg.Stepper = stepper
	}
	if end > 0 {
		cfg.End = end
	}
	if framerate > 0 {
		cfg.Framerate = framerate
	}
	if internalDt > 0 {
		cfg.InternalDt = internalDt
	}
	if tolerance > 0 {
		cfg.Tolerance = tolerance
	}
	if stopAfter > 0 {
		cfg.StopAfter = stopAfter
	}
	return cfg, cfg.Validate()
}

// buildRun wires the model and runner described by cfg.
func buildRun(cfg *config.Config) (*models.SystemSpec, *runner.Runner, error) {
	spec, err := models.Build(cfg.Model, cfg.Params)
	if err != nil {
		return nil, nil, err
	}
	if cfg.StopAfter > 0 {
		stop := &models.StopAfter{T: cfg.StopAfter}
		if err := spec.System.AddComponent("stop", stop, nil); err != nil {
			return nil, nil, err
		}
		if err := spec.System.AddStageCall("stop", "check", stop.Check); err != nil {
			return nil, nil, err
		}
	}
	if err := spec.System.Setup(cfg.Inits); err != nil {
		return nil, nil, err
	}

	st, err := integrators.New(cfg.Stepper)
	if err != nil {
		return nil, nil, err
	}
	r := runner.New()
	r.Stepper = st
	r.Framerate = cfg.Framerate
	r.InternalDt = cfg.InternalDt
	r.Tolerance = cfg.Tolerance
	return spec, r, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	spec, r, err := buildRun(cfg)
	if err != nil {
		return err
	}

	rec, err := r.Run(spec.System, cfg.End)
	if err != nil {
		return err
	}
	fmt.Printf("ran %s: %d frames over %.2fs\n", cfg.Model, rec.Frames(), rec.Time[rec.Frames()-1])

	if !noSave {
		store := storage.NewStore(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(cfg.Model, cfg.Stepper, cfg.End, cfg.Framerate, rec)
		if err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", id)
	}
	if showPlot {
		fmt.Print(viz.Plot(rec, []string{spec.PlotVar}))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	spec, r, err := buildRun(cfg)
	if err != nil {
		return err
	}

	target := watch
	if target == "" {
		target = spec.PlotVar
	}
	live := viz.NewLive(cfg.Model, target, spec.System)
	r.AddObserver(live)

	errc := make(chan error, 1)
	go func() {
		_, err := r.Run(spec.System, cfg.End)
		errc <- err
		live.Done()
	}()
	if err := live.Show(); err != nil {
		return err
	}
	return <-errc
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.NewStore(dataDir)
	metas, err := store.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSTEPPER\tEND\tFRAMES\tCREATED")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
			m.ID, m.Model, m.Stepper, m.End, m.Frames, m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.NewStore(dataDir)
	meta, _, cols, err := store.Load(args[0])
	if err != nil {
		return err
	}
	names := meta.Columns[1:]
	if series != "" {
		names = []string{series}
	}
	for _, name := range names {
		vals, ok := cols[name]
		if !ok {
			return fmt.Errorf("run %q has no series %q", args[0], name)
		}
		fmt.Print(viz.PlotSeries(name, vals))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.NewStore(dataDir)
	meta, _, cols, err := store.Load(args[0])
	if err != nil {
		return err
	}
	names := meta.Columns[1:]
	if series != "" {
		names = []string{series}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMIN\tMAX\tMEAN\tRMS\tDOMINANT FREQ")
	for _, name := range names {
		vals, ok := cols[name]
		if !ok {
			return fmt.Errorf("run %q has no series %q", args[0], name)
		}
		s := analysis.Summarize(vals)
		freqStr := "-"
		if freq, err := analysis.DominantFrequency(vals, meta.Framerate); err == nil {
			freqStr = fmt.Sprintf("%.3f Hz", freq)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			name, s.Min, s.Max, s.Mean, s.RMS, freqStr)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.NewStore(dataDir)
	meta, _, _, err := store.Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
