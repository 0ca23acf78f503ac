package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"tlinesim/internal/analysis"
	"tlinesim/internal/config"
	"tlinesim/internal/export"
	"tlinesim/internal/fdtd"
	"tlinesim/internal/sim"
	"tlinesim/internal/storage"
	"tlinesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	outName    string

	duration    float64
	npoints     int
	length      float64
	frequency   float64
	amplitude   float64
	courant     float64
	saveMode    string
	appendRun   bool
	series      string
	outFile     string
	profilePlot bool
	frameSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tlinesim",
		Short: "1D transmission line FDTD simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tlinesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&outName, "name", "", "destination name (default: preset or 'run')")
	runCmd.Flags().Float64Var(&duration, "time", 0, "run duration in simulated seconds")
	runCmd.Flags().IntVar(&npoints, "points", 0, "number of line cells")
	runCmd.Flags().Float64Var(&length, "length", 0, "line length in meters")
	runCmd.Flags().Float64Var(&frequency, "frequency", 0, "source frequency in hertz")
	runCmd.Flags().Float64Var(&amplitude, "amplitude", 0, "source amplitude in volts")
	runCmd.Flags().Float64Var(&courant, "courant", 0, "courant number")
	runCmd.Flags().StringVar(&saveMode, "mode", "", "save mode: end or full")
	runCmd.Flags().BoolVar(&appendRun, "append", false, "append to existing destination instead of overwriting")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved destinations",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [name]",
		Short: "plot a saved boundary series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "end", "boundary series: start or end")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [name]",
		Short: "frequency analysis of a saved boundary series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&series, "series", "end", "boundary series: start or end")

	exportCmd := &cobra.Command{
		Use:   "export-plot [name]",
		Short: "render a saved series to an image file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPlot,
	}
	exportCmd.Flags().StringVar(&series, "series", "end", "boundary series: start or end")
	exportCmd.Flags().StringVar(&outFile, "out", "tline.svg", "output image path (.svg, .png, .pdf)")
	exportCmd.Flags().BoolVar(&profilePlot, "profile", false, "plot the last stored full voltage row instead")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&frameSteps, "frame-steps", 40, "time steps per frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file, and flags in increasing
// precedence; only flags the user actually set override the file.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "run"

	if len(args) == 1 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg = preset
		name = args[0]
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("points") {
		cfg.Npoints = npoints
	}
	if cmd.Flags().Changed("length") {
		cfg.Length = length
	}
	if cmd.Flags().Changed("frequency") {
		cfg.Frequency = frequency
	}
	if cmd.Flags().Changed("amplitude") {
		cfg.Amplitude = amplitude
	}
	if cmd.Flags().Changed("courant") {
		cfg.Courant = courant
	}
	if cmd.Flags().Changed("mode") {
		cfg.Save.Mode = saveMode
	}
	if cmd.Flags().Changed("append") {
		cfg.Save.Overwrite = !appendRun
	}
	if outName != "" {
		name = outName
	}

	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	simulation, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	params := simulation.Params()

	mode := sim.SaveEnd
	if cfg.Save.Mode == "full" {
		mode = sim.SaveFull
	}
	store := storage.New(filepath.Join(dataDir, name))

	nsteps := int(math.Ceil(cfg.Duration / params.DeltaT))
	fmt.Printf("line: %s, points: %d, dz: %.3e m, dt: %.3e s\n", cfg.Line, cfg.Npoints, params.DeltaZ, params.DeltaT)
	fmt.Printf("# of time steps: %d\n", nsteps)

	progress := newConsoleProgress(os.Stderr, nsteps)
	start := time.Now()

	err = simulation.Run(sim.RunOptions{
		Duration: cfg.Duration,
		Save: &sim.SaveSettings{
			Sink:      store,
			Mode:      mode,
			Overwrite: cfg.Save.Overwrite,
		},
		Progress: progress,
	})
	progress.Finish()
	if err != nil {
		return err
	}

	state := simulation.State()
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("saved to: %s\n", store.Dir())
	fmt.Printf("t = %.4e s, V_end = %+.6f V\n", state.Time, state.Voltages[len(state.Voltages)-1])
	if h, ok := simulation.Solver().Line().(fdtd.Hamiltonian); ok {
		fmt.Printf("line energy: %.6e J\n", h.Energy(state))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	names, metas, err := storage.List(dataDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no saved runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCREATED\tPOINTS\tROWS\tFULL\tDT\tDZ")
	for i, name := range names {
		m := metas[i]
		full := "-"
		if m.HasFull {
			full = fmt.Sprintf("%d", m.FullRows)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.3e\t%.3e\n",
			name,
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.TotalPoints,
			m.BoundaryRows,
			full,
			m.TimeStep,
			m.LengthStep,
		)
	}
	return w.Flush()
}

func loadSeries(name string) ([]float64, storage.Metadata, error) {
	store := storage.New(filepath.Join(dataDir, name))
	meta, err := store.Meta()
	if err != nil {
		return nil, storage.Metadata{}, err
	}
	volts, _, err := store.BoundarySeries(series)
	if err != nil {
		return nil, storage.Metadata{}, err
	}
	if len(volts) == 0 {
		return nil, storage.Metadata{}, fmt.Errorf("no data in %s series", series)
	}
	return volts, meta, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	volts, meta, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s, samples: %d, dt: %.3e s\n\n", args[0], len(volts), meta.TimeStep)
	graph := asciigraph.Plot(volts,
		asciigraph.Height(12),
		asciigraph.Width(90),
		asciigraph.Caption(fmt.Sprintf("%s voltage vs time", series)),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	volts, meta, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	power := analysis.PowerSpectrum(volts)
	plotData := power[:len(power)/4]

	fmt.Printf("frequency analysis: %s (%s series)\n\n", args[0], series)
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(14),
		asciigraph.Width(90),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)

	freq := analysis.DominantFrequency(power, meta.TimeStep)
	fmt.Printf("\ndominant frequency: %.4e Hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4e s\n", 1/freq)
	}
	return nil
}

func exportPlot(cmd *cobra.Command, args []string) error {
	name := args[0]
	store := storage.New(filepath.Join(dataDir, name))
	meta, err := store.Meta()
	if err != nil {
		return err
	}

	if profilePlot {
		if !meta.HasFull {
			return fmt.Errorf("%s has no full trajectory data", name)
		}
		volts, err := store.FullVoltages()
		if err != nil {
			return err
		}
		rows, cols := volts.Dims()
		row := make([]float64, cols)
		copy(row, volts.RawRowView(rows-1))
		if err := export.Profile(outFile, name+" final profile", "voltage [V]", meta.LengthStep, row); err != nil {
			return err
		}
	} else {
		volts, _, err := store.BoundarySeries(series)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s %s voltage", name, series)
		if err := export.TimeSeries(outFile, title, "voltage [V]", meta.TimeStep, volts); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	model, err := viz.NewModel(name, frameSteps, func() (*sim.Simulation, error) {
		return buildSimulation(cfg)
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model)
	_, err = p.Run()
	return err
}
