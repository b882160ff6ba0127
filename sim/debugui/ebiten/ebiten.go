// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cutlass/sim"
	"github.com/plus3/cutlass/sim/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay draws debug panels on top of an ebiten game. Its Update, Draw and
// Layout methods are meant to be called from the matching ebiten.Game
// methods.
type Overlay struct {
	Backend  ImguiBackend
	Debugger *debugui.Debugger
	Visible  bool
}

// NewOverlay creates the ImGui backend and its window. It must be called
// once, before ebiten.RunGame.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return &Overlay{
		Backend:  ImguiBackend{EbitenBackend: backend},
		Debugger: debugui.NewDebugger(),
		Visible:  true,
	}
}

func (o *Overlay) Update(snapshot *sim.World, stats *sim.SchedulerStats, dt float64) {
	o.Backend.BeginFrame()
	if o.Visible {
		o.Debugger.Render(&debugui.View{
			Snapshot:  snapshot,
			Stats:     stats,
			DeltaTime: float32(dt),
		})
	}
	o.Backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.Backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.Backend.Layout(width, height)
}

// InputState reports what ImGui consumed on the last rendered frame.
func (o *Overlay) InputState() *debugui.InputState {
	return &o.Debugger.Input
}
