package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cutlass/config"
	"github.com/plus3/cutlass/logger"
	"github.com/plus3/cutlass/present"
	"github.com/plus3/cutlass/sim"
	"github.com/plus3/cutlass/sim/debugui"
	debugui_ebiten "github.com/plus3/cutlass/sim/debugui/ebiten"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. Defaults are used when empty.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui debug overlay.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}

	closeLog, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()
	log := logger.L()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Warn("sentry disabled", "err", err)
		}
		defer sentry.Flush(2 * time.Second)
		defer sentry.Recover()
	}

	if cfg.Statsview.Addr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Statsview.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.Info("statsview listening", "addr", cfg.Statsview.Addr)
	}

	if err := run(cfg, *debug); err != nil {
		log.Error("cutlass stopped", "err", err)
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		closeLog()
		os.Exit(1)
	}
}

func initLogger(cfg config.LoggingConfig) (func(), error) {
	var out io.Writer = os.Stdout
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", cfg.File, err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger.Init(logger.Config{Level: cfg.Level, Format: cfg.Format, Output: out})
	return closeFn, nil
}

func run(cfg *config.Config, debug bool) error {
	log := logger.L()

	bindings, err := cfg.BindingTable()
	if err != nil {
		return err
	}

	opts := append(cfg.SchedulerOptions(),
		sim.WithLogger(log.With("component", "scheduler")),
		sim.WithInputAggregator(sim.NewInputAggregator(bindings)),
	)
	scheduler := sim.NewScheduler(cfg.NewWorld(), opts...)
	populate(scheduler)

	log.Info("scheduler ready",
		"tick_rate", cfg.Simulation.TickRate,
		"entities", scheduler.Current().Len(),
		"bindings", len(bindings),
	)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	var source sim.DeviceSource = present.NewDeviceFor(bindings)
	var overlay *debugui_ebiten.Overlay
	if debug {
		overlay = debugui_ebiten.NewOverlay(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		source = &debugui.CaptureFilter{Source: source, State: overlay.InputState()}
	}

	game := present.NewGame(scheduler, source)
	game.Log = log
	if overlay != nil {
		game.Overlay = overlay
	}

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}

	stats := scheduler.Stats()
	log.Info("scheduler stopped",
		"frames", stats.Frames,
		"ticks", stats.Ticks,
		"dropped_ticks", stats.DroppedTicks,
		"checksum", fmt.Sprintf("%016x", scheduler.Current().Checksum()),
	)
	return nil
}
