package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"mxbridge/internal/config"
	"mxbridge/internal/engine"
	"mxbridge/internal/engine/matlab"
	"mxbridge/internal/filter"
	"mxbridge/internal/imageio"
	"mxbridge/internal/imaging"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/shutdown"
	"mxbridge/internal/status"
	"mxbridge/internal/viewer"
)

const (
	AppName    = "mxbridge"
	AppVersion = "1.0.0"
	component  = "Main"
)

type options struct {
	configPath  string
	input       string
	output      string
	colorFilter string
	depthFilter string
	logLevel    string
	showEngine  bool
	view        bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(exitCode(err))
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.input, "in", "", "input image file (required)")
	fs.StringVar(&opts.output, "out", "", "write the filtered image to this file")
	fs.StringVar(&opts.colorFilter, "filter", "", "colour filter: none, object-centroids, kmeans-overlay")
	fs.StringVar(&opts.depthFilter, "depth-filter", "", "depth filter identifier")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or off")
	fs.BoolVar(&opts.showEngine, "show-engine", false, "show the engine desktop while running")
	fs.BoolVar(&opts.view, "view", false, "open a viewer window with a filter menu")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.input == "" {
		fmt.Fprintln(stderr, "-in is required")
		fs.Usage()
		return opts, errors.New("missing -in")
	}
	return opts, nil
}

// exitCode maps the failure onto its result kind so scripts can tell failures apart.
func exitCode(err error) int {
	kind := status.KindOf(err)
	if kind == status.KindOK {
		return 0
	}
	return 10 + int(kind)
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.colorFilter != "" {
		cfg.Filters.Color = opts.colorFilter
	}
	if opts.depthFilter != "" {
		cfg.Filters.Depth = opts.depthFilter
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.showEngine {
		cfg.Engine.ShowUI = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Console {
		return logger.NewConsoleLogger(level), nil
	}
	return logger.NewZerolog(os.Stderr, level), nil
}

func run(opts options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	log.Info(component, "starting", map[string]interface{}{
		"version":      AppVersion,
		"color_filter": cfg.Filters.Color,
		"depth_filter": cfg.Filters.Depth,
		"matlab":       matlab.Available(),
	})
	if !matlab.Available() {
		log.Warning(component, "built without the MATLAB engine binding; rebuild with -tags matlab", nil)
	}

	tracker := mxarray.NewTracker(mxarray.NewHeapAllocator())
	defer reportBuffers(tracker, log)

	session := engine.NewSession(matlab.NewDriver(),
		engine.WithStartCommand(cfg.Engine.StartCommand),
		engine.WithAllocator(tracker),
		engine.WithLogger(log),
	)

	shutdownMgr := shutdown.NewManager(log)
	shutdownMgr.Register("engine", session)
	shutdownMgr.Listen()
	defer shutdownMgr.Shutdown()

	source, err := imageio.Load(opts.input, tracker)
	if err != nil {
		return err
	}
	defer source.Destroy()

	if err := session.Start(cfg.Engine.ShowUI); err != nil {
		return err
	}

	pipeline := filter.NewPipeline(session,
		filter.WithParams(cfg.FilterParams()),
		filter.WithLogger(log),
	)
	pipeline.SetDepthFilter(filter.ID(cfg.Filters.Depth))

	var renderMu sync.Mutex
	render := func(id filter.ID) (*imaging.Bitmap, filter.Centroids, error) {
		renderMu.Lock()
		defer renderMu.Unlock()
		return renderFrame(pipeline, source, id, tracker)
	}

	bmp, centroids, err := render(filter.ID(cfg.Filters.Color))
	if err != nil {
		return err
	}

	printCentroids(stdout, centroids)

	if opts.output != "" {
		if err := imageio.Save(opts.output, bmp); err != nil {
			return err
		}
		log.Info(component, "filtered image written", map[string]interface{}{
			"path": opts.output,
		})
	}

	if opts.view {
		v := viewer.New(AppName+" - "+opts.input, render, log)
		shutdownMgr.Register("viewer", v)
		v.Show(bmp, centroids, filter.ID(cfg.Filters.Color))
		v.Run()
	}

	return nil
}

// reportBuffers logs allocator accounting and warns about buffers still live at exit.
func reportBuffers(tracker *mxarray.Tracker, log logger.Logger) {
	stats := tracker.GetStats()
	log.Debug(component, "buffer accounting", map[string]interface{}{
		"allocations":     stats.AllocationCount,
		"frees":           stats.FreeCount,
		"active":          stats.CurrentlyActive,
		"untracked_frees": stats.UntrackedFrees,
	})

	for _, leak := range tracker.DetectLeaks(0) {
		log.Warning(component, "buffer not released", map[string]interface{}{
			"tag":  leak.Tag,
			"size": leak.Size,
		})
	}
}

// renderFrame filters a copy of source with the given colour filter and converts the result
// to a bitmap. source itself is never modified.
func renderFrame(p *filter.Pipeline, source *mxarray.Array, id filter.ID, alloc mxarray.Allocator) (*imaging.Bitmap, filter.Centroids, error) {
	frame, err := mxarray.NewUint8(source.Dimensions(), source.Data(), alloc, "frame")
	if err != nil {
		return nil, nil, err
	}
	defer frame.Destroy()

	p.SetColorFilter(id)
	centroids, err := p.ApplyColorFilter(frame)
	if err != nil {
		return nil, nil, err
	}

	dims := frame.Dimensions()
	bmp := &imaging.Bitmap{Header: imaging.NewTopDownHeader(dims[1], dims[0])}
	if err := imaging.ToBitmap(frame, bmp); err != nil {
		return nil, nil, err
	}
	return bmp, centroids, nil
}

func printCentroids(w io.Writer, centroids filter.Centroids) {
	fmt.Fprintf(w, "objects: %d\n", len(centroids))
	for i, c := range centroids {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\n", i+1, c.X, c.Y)
	}
}
