package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/config"
	"github.com/plus3/cutlass/logger"
	"github.com/plus3/cutlass/sim"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	interval := flag.Duration("interval", 0, "Frame interval for the paced loop. Zero runs frames back to back.")
	seed := flag.Uint64("seed", 1, "Seed for entity placement and scripted input.")
	configPath := flag.String("config", "", "Path to a YAML config file.")
	statsviewAddr := flag.String("statsview", "", "Serve live runtime charts on this address, e.g. localhost:18066.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
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
	if *statsviewAddr != "" {
		cfg.Statsview.Addr = *statsviewAddr
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
	log := logger.L()

	if cfg.Statsview.Addr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Statsview.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.Info("statsview listening", "addr", cfg.Statsview.Addr)
	}

	log.Info("starting simulation stress test")

	bindings, err := cfg.BindingTable()
	if err != nil {
		log.Error("invalid bindings", "err", err)
		os.Exit(2)
	}

	// 1. Setup world and scheduler
	opts := append(cfg.SchedulerOptions(),
		sim.WithLogger(log.With("component", "scheduler")),
		sim.WithInputAggregator(sim.NewInputAggregator(bindings)),
	)
	scheduler := sim.NewScheduler(cfg.NewWorld(), opts...)
	scheduler.Register(&churnSystem{Every: 30})

	// 2. Populate the world
	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	log.Info("populating world", "entities", *entityCount)
	for i := 0; i < *entityCount; i++ {
		scheduler.Insert(randomEntity(rng))
	}
	log.Info("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		TickRate:       cfg.Simulation.TickRate,
		Interval:       *interval,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", "duration", *duration, "interval", *interval)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	source := newBotSource(rng, bindings)
	presenter := &timingPresenter{stats: &report.FrameTime, last: time.Now()}
	startTime := time.Now()

	err = scheduler.Run(ctx, source, presenter, sim.NewMonotonicClock(), *interval)
	if err != nil {
		log.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.Scheduler = *scheduler.Stats()
	report.Checksum = scheduler.Current().Checksum()
	report.FinalEntities = scheduler.Current().Len()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", "ticks", report.Scheduler.Ticks, "frames", report.Scheduler.Frames)

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Error("failed to generate report", "err", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

// timingPresenter records the wall time between presented frames. With no
// interval that is the full cost of one frame.
type timingPresenter struct {
	stats *Stats
	last  time.Time
}

func (p *timingPresenter) Present(snapshot *sim.World) error {
	now := time.Now()
	p.stats.Samples = append(p.stats.Samples, now.Sub(p.last))
	p.last = now
	return nil
}

var (
	meshes    = []sim.MeshRef{"cube", "square", "triangle"}
	materials = []sim.MaterialRef{"red", "green", "blue"}
)

func randomEntity(rng *rand.Rand) sim.Entity {
	pos := mgl32.Vec3{
		rng.Float32()*2048 - 1024,
		rng.Float32() * 256,
		rng.Float32()*2048 - 1024,
	}
	e := sim.NewEntity(pos, meshes[rng.IntN(len(meshes))], materials[rng.IntN(len(materials))])

	switch rng.IntN(4) {
	case 0:
		e.Behavior = sim.Spinner{Rate: mgl32.Vec3{0, rng.Float32() * 180, 0}}
	case 1:
		e.Behavior = sim.Drifter{Velocity: mgl32.Vec3{rng.Float32()*64 - 32, 0, rng.Float32()*64 - 32}}
	case 2:
		e.Behavior = sim.Oscillator{
			Origin:    pos,
			Axis:      mgl32.Vec3{0, 1, 0},
			Amplitude: 16 + rng.Float32()*48,
			Frequency: 0.1 + rng.Float32(),
		}
	}
	return e
}

// churnSystem deletes the oldest entity and spawns a copy of it every
// Every ticks, so the stress run also covers id allocation and the
// removal paths of interpolation.
type churnSystem struct {
	Every uint64
}

func (c *churnSystem) Execute(frame *sim.TickFrame) {
	if c.Every == 0 || frame.Tick%c.Every != 0 {
		return
	}
	for id, e := range frame.World.Entities() {
		frame.Commands.Delete(id)
		frame.Commands.Spawn(*e, nil)
		return
	}
}

// botSource holds a random combination of bound keys for a random number
// of polls, and wanders the cursor.
type botSource struct {
	rng   *rand.Rand
	keys  []sim.Key
	state sim.DeviceState
	hold  int
}

func newBotSource(rng *rand.Rand, bindings sim.Bindings) *botSource {
	b := &botSource{rng: rng}
	for _, k := range sim.Keys() {
		if _, ok := bindings[k]; ok && bindings[k] != sim.ActionCancel {
			b.keys = append(b.keys, k)
		}
	}
	return b
}

func (b *botSource) Poll() sim.Device {
	if b.hold <= 0 {
		b.hold = 10 + b.rng.IntN(50)
		b.state.Pressed = b.state.Pressed[:0]
		for _, k := range b.keys {
			if b.rng.IntN(3) == 0 {
				b.state.Pressed = append(b.state.Pressed, k)
			}
		}
	}
	b.hold--

	b.state.CursorPos = b.state.CursorPos.Add(mgl32.Vec2{b.rng.Float32()*4 - 2, b.rng.Float32()*4 - 2})
	return sim.DeviceState{
		Pressed:   append([]sim.Key(nil), b.state.Pressed...),
		CursorPos: b.state.CursorPos,
	}
}

func (b *botSource) ShouldClose() bool {
	return false
}
