package present

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cutlass/sim"
)

// Overlay is drawn on top of the rendered snapshot, e.g. debug windows.
type Overlay interface {
	Update(snapshot *sim.World, stats *sim.SchedulerStats, dt float64)
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Game implements ebiten.Game. Every Update advances the scheduler by the
// measured frame delta and keeps the interpolated snapshot for Draw.
type Game struct {
	Scheduler *sim.Scheduler
	Source    sim.DeviceSource
	Renderer  *Renderer
	Timer     *sim.FrameTimer
	Overlay   Overlay
	Log       *slog.Logger

	snapshot *sim.World
}

func NewGame(scheduler *sim.Scheduler, source sim.DeviceSource) *Game {
	return &Game{
		Scheduler: scheduler,
		Source:    source,
		Renderer:  NewRenderer(),
		Timer:     sim.NewFrameTimer(sim.NewMonotonicClock()),
		Log:       slog.New(slog.DiscardHandler),
	}
}

func (g *Game) Update() error {
	if g.Source.ShouldClose() || g.Scheduler.Stopped() {
		g.Scheduler.Stop()
		g.Log.Info("window closed", "frames", g.Scheduler.Frames(), "ticks", g.Scheduler.Ticks())
		return ebiten.Termination
	}

	dt := g.Timer.Delta()
	snapshot, err := g.Scheduler.Frame(dt, g.Source.Poll())
	if err != nil {
		return fmt.Errorf("present: frame %d: %w", g.Scheduler.Frames(), err)
	}
	g.snapshot = snapshot

	ApplyCursorMode(snapshot)

	if g.Overlay != nil {
		g.Overlay.Update(snapshot, g.Scheduler.Stats(), dt)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen, g.snapshot)
	if g.Overlay != nil {
		g.Overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Snapshot returns the snapshot drawn by the last Draw call.
func (g *Game) Snapshot() *sim.World {
	return g.snapshot
}

// CursorMode picks the cursor mode for the held actions: Cancel releases
// the cursor and Primary captures it. ok is false when neither is held.
func CursorMode(actions sim.Action) (mode ebiten.CursorModeType, ok bool) {
	switch {
	case actions.Has(sim.ActionCancel):
		return ebiten.CursorModeVisible, true
	case actions.Has(sim.ActionPrimary):
		return ebiten.CursorModeCaptured, true
	}
	return ebiten.CursorModeVisible, false
}

func ApplyCursorMode(snapshot *sim.World) {
	if mode, ok := CursorMode(snapshot.Actions); ok && ebiten.CursorMode() != mode {
		ebiten.SetCursorMode(mode)
	}
}
