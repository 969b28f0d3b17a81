package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/emfield/internal/analysis"
	"github.com/san-kum/emfield/internal/compute"
	"github.com/san-kum/emfield/internal/config"
	"github.com/san-kum/emfield/internal/export"
	"github.com/san-kum/emfield/internal/field"
	"github.com/san-kum/emfield/internal/grid"
	"github.com/san-kum/emfield/internal/logging"
	"github.com/san-kum/emfield/internal/metrics"
	"github.com/san-kum/emfield/internal/scene"
	"github.com/san-kum/emfield/internal/storage"
	"github.com/san-kum/emfield/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	dataDir     string
	logLevel    string
	logFormat   string
	metricsAddr string

	configFile string
	preset     string
	quantity   string
	derive     string
	plane      string
	planeAt    float64
	resolution int
	atTime     float64
	frames     int
	backend    string
	noLimit    bool

	outPath   string
	save      bool
	width     int
	height    int
	stride    int
	normalize bool
	fps       int
	theme     string

	axis      string
	samples   int
	component string
	probe     []float64
	periods   int
)

var (
	logger    logging.Logger = logging.Noop()
	collector *metrics.Collector
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "emfield",
		Short:         "electromagnetic field visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: runBrowse,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".emfield", "data directory")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	sceneFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.StringVar(&configFile, "config", "", "scene config file path (yaml)")
		f.StringVar(&preset, "preset", "", "preset of the scene")
		f.StringVar(&quantity, "quantity", "", "quantity: phi, A, E, B, H, S")
		f.StringVar(&derive, "derive", "", "operator: none, grad, -grad, curl, curlcurl, div")
		f.StringVar(&plane, "plane", "", "plane: xy, yz, xz or 3d")
		f.Float64Var(&planeAt, "at", 0, "plane offset along its normal")
		f.IntVar(&resolution, "res", 0, "points per axis")
		f.Float64Var(&atTime, "t", 0, "time in seconds")
		f.IntVar(&frames, "frames", 0, "frames per period")
		f.StringVar(&backend, "backend", "", "compute backend: cpu, serial")
		f.BoolVar(&noLimit, "no-limit", false, "disable magnitude clipping")
	}
	drawFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.IntVar(&width, "width", 60, "canvas width in cells")
		f.IntVar(&height, "height", 30, "canvas height in cells")
		f.IntVar(&stride, "stride", 1, "draw every n-th sample")
		f.BoolVar(&normalize, "normalize", false, "draw direction only")
		f.StringVar(&theme, "theme", "field", "theme: "+strings.Join(viz.ThemeNames(), ", "))
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "evaluate a scene once and print the field",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	drawFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")

	showCmd := &cobra.Command{
		Use:     "show [scene]",
		Aliases: []string{"animate"},
		Short:   "animate a scene over one period in the terminal",
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	sceneFlags(showCmd)
	drawFlags(showCmd)
	showCmd.Flags().IntVar(&fps, "fps", 12, "frame rate")
	showCmd.Flags().StringVarP(&outPath, "out", "o", "field.gif", "gif path for the G key")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "pick a preset and animate it",
		RunE:  runBrowse,
	}
	drawFlags(browseCmd)
	browseCmd.Flags().IntVar(&fps, "fps", 12, "frame rate")

	gifCmd := &cobra.Command{
		Use:   "gif [scene]",
		Short: "render one period of a scene to a gif",
		Args:  cobra.ExactArgs(1),
		RunE:  runGIF,
	}
	sceneFlags(gifCmd)
	drawFlags(gifCmd)
	gifCmd.Flags().IntVar(&fps, "fps", 12, "frame rate")
	gifCmd.Flags().StringVarP(&outPath, "out", "o", "field.gif", "output path")

	svgCmd := &cobra.Command{
		Use:   "svg [scene]",
		Short: "render a scene slice as svg arrows",
		Args:  cobra.ExactArgs(1),
		RunE:  runSVG,
	}
	sceneFlags(svgCmd)
	drawFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "field.svg", "output path")

	profileCmd := &cobra.Command{
		Use:   "profile [scene]",
		Short: "plot a field component along a line",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
	sceneFlags(profileCmd)
	profileCmd.Flags().StringVar(&axis, "axis", "x", "line direction")
	profileCmd.Flags().IntVar(&samples, "samples", 120, "samples along the line")
	profileCmd.Flags().StringVar(&component, "component", "mag", "x, y, z or mag")
	profileCmd.Flags().Float64SliceVar(&probe, "through", []float64{0, 0, 0}, "point the line passes through")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [scene]",
		Short: "time series and spectrum of the first radiator at a probe point",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpectrum,
	}
	sceneFlags(spectrumCmd)
	spectrumCmd.Flags().Float64SliceVar(&probe, "probe", []float64{1, 0, 0}, "probe point")
	spectrumCmd.Flags().IntVar(&samples, "samples", 32, "samples per period")
	spectrumCmd.Flags().IntVar(&periods, "periods", 4, "periods")

	fluxCmd := &cobra.Command{
		Use:   "flux [scene]",
		Short: "electric flux through the scene box and the enclosed charge",
		Args:  cobra.ExactArgs(1),
		RunE:  runFlux,
	}
	sceneFlags(fluxCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes, presets and emitter kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENE\tPRESETS")
			for _, s := range config.ListScenes() {
				fmt.Fprintf(w, "%s\t%s\n", s, strings.Join(config.ListPresets(s), ", "))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nemitters: %s\n", strings.Join(scene.NewRegistry().ListEmitters(), ", "))
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [scene]",
		Short: "write the resolved scene config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	sceneFlags(configCmd)
	configCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (stdout if empty)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scene]",
		Short: "evaluate a scene and export the field as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	sceneFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (stdout if empty)")

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [scene]",
		Short: "evaluate a scene and export the field as a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  exportXLSX,
	}
	sceneFlags(exportXLSXCmd)
	exportXLSXCmd.Flags().StringVarP(&outPath, "out", "o", "field.xlsx", "output path")

	rootCmd.AddCommand(runCmd, showCmd, browseCmd, gifCmd, svgCmd, profileCmd, spectrumCmd, fluxCmd,
		listCmd, scenesCmd, presetsCmd, configCmd, exportJSONCmd, exportXLSXCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// setup wires logging and metrics from the persistent flags.
func setup() error {
	if logLevel != "" || logFormat != "" {
		logger = logging.New(logging.Config{Level: logLevel, Format: logFormat})
	} else {
		logger = logging.NewFromEnv()
	}

	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	collector = c

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(context.Background(), "metrics server stopped", logging.Err(err))
			}
		}()
	}
	return nil
}

// resolveConfig picks the preset, then the config file, then flags that
// were set explicitly.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		p := preset
		if p == "" {
			presets := config.ListPresets(name)
			if len(presets) == 0 {
				return nil, fmt.Errorf("unknown scene: %s (available: %v)", name, config.ListScenes())
			}
			p = presets[0]
		}
		cfg = config.GetPreset(name, p)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", p, config.ListPresets(name))
		}
	}

	f := cmd.Flags()
	if f.Changed("quantity") {
		cfg.Quantity = quantity
	}
	if f.Changed("derive") {
		cfg.Derive = derive
	}
	if f.Changed("plane") {
		cfg.Plane = plane
	}
	if f.Changed("at") {
		cfg.PlaneAt = planeAt
	}
	if f.Changed("res") {
		cfg.Resolution = []int{resolution}
	}
	if f.Changed("t") {
		cfg.Time = atTime
	}
	if f.Changed("frames") {
		cfg.Frames = frames
	}
	if f.Changed("backend") {
		cfg.Backend = backend
	}
	if noLimit {
		cfg.Limit.Enabled = false
	}
	return cfg, nil
}

func loadScene(cmd *cobra.Command, name string) (*scene.Scene, error) {
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return nil, err
	}
	engine := grid.NewEngine(
		grid.WithBackend(compute.BackendByName(cfg.Backend)),
		grid.WithLogger(logger),
		grid.WithMetrics(collector),
	)
	return scene.Build(cfg, nil, engine, logger)
}

func quiverOptions() viz.QuiverOptions {
	return viz.QuiverOptions{Width: width, Height: height, Stride: stride, Normalize: normalize, MarkSingular: true}
}

func observe(f *grid.Sampled) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range metrics.Standard() {
		m.Observe(f)
		out[m.Name()] = m.Value()
	}
	return out
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	ctx := logging.ContextWithRunID(cmd.Context(), fmt.Sprintf("%s_%d", s.Name(), time.Now().Unix()))

	start := time.Now()
	frame, err := s.Frame(ctx, s.Config.Time)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	if s.Config.Limit.Enabled {
		if _, err := s.Clip(frame); err != nil {
			return err
		}
	}

	fmt.Println(viz.Quiver(frame.Slice, quiverOptions()).String())

	sum := analysis.Summarize(frame.Field)
	fmt.Printf("scene: %s  %s  t=%.4g s\n", s.Name(), requestLabel(s.Request), frame.T)
	fmt.Printf("points: %d  singular: %d  clipped: %d  elapsed: %v\n", sum.Points, sum.Singular, frame.Clipped, elapsed)
	fmt.Printf("|F| min %.4g  mean %.4g  max %.4g  rms %.4g\n", sum.Min, sum.Mean, sum.Max, sum.RMS)

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	m := observe(frame.Field)
	for k, v := range sum.Values() {
		m["summary."+k] = v
	}
	runID, err := st.Save(s.Name(), frame.Field, s.Params(), m)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func requestLabel(r grid.Request) string {
	if r.Derive == grid.DeriveNone {
		return r.Quantity.String()
	}
	return fmt.Sprintf("%s(%s)", r.Derive, r.Quantity)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	fs, err := s.Animate(cmd.Context(), s.Config.Frames)
	if err != nil {
		return err
	}
	m := viz.NewAnimation(fs, viz.AnimationConfig{
		Title:   s.Name() + " " + requestLabel(s.Request),
		Quiver:  quiverOptions(),
		FPS:     fps,
		Theme:   theme,
		GIFPath: outPath,
		Params:  s.Params(),
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var entries []viz.Entry
	for _, name := range config.ListScenes() {
		for _, p := range config.ListPresets(name) {
			cfg := config.GetPreset(name, p)
			entries = append(entries, viz.Entry{
				Scene:  name,
				Preset: p,
				Info:   fmt.Sprintf("%s %s on %s", cfg.Quantity, cfg.Derive, cfg.Plane),
			})
		}
	}
	ctx := cmd.Context()
	load := func(e viz.Entry) ([]*scene.Frame, map[string]float64, error) {
		cfg := config.GetPreset(e.Scene, e.Preset)
		engine := grid.NewEngine(grid.WithLogger(logger), grid.WithMetrics(collector))
		s, err := scene.Build(cfg, nil, engine, logger)
		if err != nil {
			return nil, nil, err
		}
		fs, err := s.Animate(ctx, cfg.Frames)
		return fs, s.Params(), err
	}
	b := viz.NewBrowser(entries, load, viz.AnimationConfig{Quiver: quiverOptions(), FPS: fps, Theme: theme})
	_, err := tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}

func runGIF(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	fs, err := s.Animate(cmd.Context(), s.Config.Frames)
	if err != nil {
		return err
	}
	delay := 100 / max(fps, 1)
	if err := viz.SaveGIF(outPath, viz.RenderFrames(fs, quiverOptions()), viz.GetTheme(theme), delay); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(fs), outPath)
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	frame, err := s.Frame(cmd.Context(), s.Config.Time)
	if err != nil {
		return err
	}
	if s.Config.Limit.Enabled {
		if _, err := s.Clip(frame); err != nil {
			return err
		}
	}
	size := 16 * max(width, height)
	if err := os.WriteFile(outPath, []byte(export.SliceToSVG(frame.Slice, size, viz.GetTheme(theme))), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	a, err := field.ParseAxis(axis)
	if err != nil {
		return err
	}
	if len(probe) != 3 {
		return fmt.Errorf("--through needs 3 values, got %d", len(probe))
	}
	r := s.Grid.Bounds()
	lo, hi := r.X.Min, r.X.Max
	switch a {
	case field.AxisY:
		lo, hi = r.Y.Min, r.Y.Max
	case field.AxisZ:
		lo, hi = r.Z.Min, r.Z.Max
	}
	base := r3.Vec{X: probe[0], Y: probe[1], Z: probe[2]}
	coords, vals, mask, err := s.Line(a, lo, hi, samples, base, s.Config.Time, 0)
	if err != nil {
		return err
	}

	data := make([]float64, len(vals))
	masked := 0
	for i, v := range vals {
		if mask[i] {
			masked++
			continue
		}
		switch component {
		case "x":
			data[i] = v.X
		case "y":
			data[i] = v.Y
		case "z":
			data[i] = v.Z
		default:
			data[i] = r3.Norm(v)
		}
	}
	caption := fmt.Sprintf("%s %s along %s in [%.3g, %.3g]", requestLabel(s.Request), component, a, coords[0], coords[len(coords)-1])
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption(caption)))
	if masked > 0 {
		fmt.Printf("%d singular samples plotted as 0\n", masked)
	}
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	if len(probe) != 3 {
		return fmt.Errorf("--probe needs 3 values, got %d", len(probe))
	}
	var rad field.Emitter
	for _, e := range s.Emitters {
		if _, ok := e.(field.Radiator); ok {
			rad = e
			break
		}
	}
	if rad == nil {
		return fmt.Errorf("%w: scene %s", analysis.ErrStaticEmitter, s.Name())
	}
	p := r3.Vec{X: probe[0], Y: probe[1], Z: probe[2]}
	sp, err := analysis.ProbeSpectrum(rad, s.Request.Quantity, p, samples, periods)
	if err != nil {
		return err
	}
	fmt.Println(asciigraph.Plot(sp.Series, asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s_%s at %v", s.Request.Quantity, sp.Component, probe))))
	fmt.Println()
	fmt.Println(asciigraph.Plot(sp.Power, asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption("power spectrum")))
	fmt.Printf("dominant frequency: %.6g Hz\n", sp.DominantFrequency())
	return nil
}

func runFlux(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	cfg.Plane = "3d"
	cfg.Quantity = "E"
	cfg.Derive = ""
	engine := grid.NewEngine(grid.WithBackend(compute.BackendByName(cfg.Backend)), grid.WithLogger(logger), grid.WithMetrics(collector))
	s, err := scene.Build(cfg, nil, engine, logger)
	if err != nil {
		return err
	}
	f, err := s.Evaluate(cmd.Context(), cfg.Time)
	if err != nil {
		return err
	}
	flux, err := analysis.BoxFlux(f)
	if err != nil {
		return err
	}
	q, err := analysis.EnclosedCharge(f, s.Constants)
	if err != nil {
		return err
	}
	names := []string{"-x", "+x", "-y", "+y", "-z", "+z"}
	for i, v := range flux.Faces {
		fmt.Printf("  %s: %.6g\n", names[i], v)
	}
	fmt.Printf("total flux: %.6g\nenclosed charge: %.6g\n", flux.Total(), q)
	if flux.Masked > 0 {
		fmt.Printf("%d singular face cells skipped\n", flux.Masked)
	}
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tQUANTITY\tDERIVE\tPOINTS\tSINGULAR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Quantity,
			run.Derive,
			run.Points,
			run.Singular,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return config.Encode(os.Stdout, cfg)
	}
	return config.Save(outPath, cfg)
}

func evaluateForExport(cmd *cobra.Command, name string) (*storage.ExportData, error) {
	s, err := loadScene(cmd, name)
	if err != nil {
		return nil, err
	}
	f, err := s.Evaluate(cmd.Context(), s.Config.Time)
	if err != nil {
		return nil, err
	}
	return storage.NewExportData(s.Name(), f, s.Params(), observe(f)), nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := evaluateForExport(cmd, args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported %d points to %s\n", len(data.Points), outPath)
	return nil
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	data, err := evaluateForExport(cmd, args[0])
	if err != nil {
		return err
	}
	if err := storage.ExportXLSX(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported %d points to %s\n", len(data.Points), outPath)
	return nil
}
