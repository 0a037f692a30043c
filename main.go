package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"quark2d/app"
	"quark2d/config"
	"quark2d/fpslog"
	"quark2d/hal"
	"quark2d/internal/buildinfo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanup runs first.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quark2d", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		headless   = fs.Bool("headless", false, "Run without a window.")
		hz         = fs.Int("hz", 60, "Tick rate in headless mode.")
		ticks      = fs.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
		configPath = fs.String("config", "", "YAML config file.")
		logLevel   = fs.String("log", "info", "Log level (debug|info|warn|error).")
		fpsLog     = fs.String("fps-log", fpslog.DefaultPath, `FPS sample file ("-" disables).`)
		showHUD    = fs.Bool("hud", false, "Draw the FPS overlay.")
		snapshot   = fs.String("snapshot", "", "Headless: write the last frame to this PNG.")
		keys       = fs.String("keys", "", `Headless: scripted key taps, e.g. "30:z,60:q".`)
		version    = fs.Bool("v", false, "Print version and exit.")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintf(stdout, "quark2d %s (%s, %s)\n", buildinfo.Short(), buildinfo.Commit, buildinfo.Date)
		return 0
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return fail(stderr, "config: %v", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hz":
			cfg.Headless.Hz = *hz
		case "ticks":
			cfg.Headless.Ticks = *ticks
		case "log":
			cfg.Log.Level = *logLevel
		case "fps-log":
			cfg.Log.Path = *fpsLog
		case "hud":
			cfg.HUD.Enabled = *showHUD
		case "snapshot":
			cfg.Headless.Snapshot = *snapshot
		}
	})
	if err := cfg.Validate(); err != nil {
		return fail(stderr, "config: %v", err)
	}

	logger, err := hal.NewLogger(cfg.Log.Level)
	if err != nil {
		return fail(stderr, "%v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", buildinfo.Short()),
		zap.Bool("headless", *headless),
		zap.String("fps_log", cfg.Log.Path))

	newGame := func(h hal.HAL) (hal.Game, error) {
		opt, err := app.OptionsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Log.Path != "-" {
			sink, err := fpslog.Open(cfg.Log.Path, fpslog.Options{Header: cfg.Log.Header, Logger: logger})
			if err != nil {
				return nil, err
			}
			opt.Sink = sink
		}
		return app.New(h, opt)
	}

	if *headless {
		script, err := hal.ParseScript(*keys)
		if err != nil {
			return fail(stderr, "%v", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, hal.HeadlessConfig{
			Hz:       cfg.Headless.Hz,
			Ticks:    cfg.Headless.Ticks,
			Width:    cfg.Window.Width,
			Height:   cfg.Window.Height,
			Script:   script,
			Snapshot: cfg.Headless.Snapshot,
			Logger:   logger,
		}, newGame)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("headless run failed", zap.Error(err))
			return fail(stderr, "%v", err)
		}
		return 0
	}

	if err := hal.RunWindow(hal.WindowConfig{
		Title:          cfg.Window.Title,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		RepeatDelay:    cfg.Repeat.Delay,
		RepeatInterval: cfg.Repeat.Interval,
		Logger:         logger,
	}, newGame); err != nil {
		logger.Error("window run failed", zap.Error(err))
		return fail(stderr, "%v", err)
	}
	return 0
}

// fail prints to stderr and returns exit code 1.
func fail(w io.Writer, format string, args ...any) int {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
	return 1
}
