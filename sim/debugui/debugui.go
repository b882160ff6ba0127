// Package debugui provides Dear ImGui debug panels for a running simulation.
// Panels read the interpolated snapshot and scheduler statistics and never
// mutate the simulation.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cutlass/sim"
)

// View is what panels render from on a single frame.
type View struct {
	Snapshot  *sim.World
	Stats     *sim.SchedulerStats
	DeltaTime float32
}

// Panel renders one ImGui window.
type Panel interface {
	Render(view *View)
}

// PanelFunc adapts a plain function to Panel.
type PanelFunc func(view *View)

func (f PanelFunc) Render(view *View) { f(view) }

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Debugger renders a set of panels and records ImGui's input capture state.
type Debugger struct {
	Panels []Panel
	Input  InputState
}

// NewDebugger returns a debugger with the stock panels: performance stats,
// an entity browser and an inspector following the browser's selection.
func NewDebugger() *Debugger {
	browser := NewEntityBrowser(100)
	inspector := NewInspector()
	stats := NewPerformanceStats(defaultHistoryFrames)

	return &Debugger{
		Panels: []Panel{
			PanelFunc(func(v *View) { stats.Render(v.Stats, v.DeltaTime, v.Snapshot.Len()) }),
			PanelFunc(func(v *View) { browser.Render(v.Snapshot) }),
			PanelFunc(func(v *View) { inspector.Render(v.Snapshot, browser.Selected()) }),
		},
	}
}

// Add appends a panel.
func (d *Debugger) Add(p Panel) {
	d.Panels = append(d.Panels, p)
}

// Render must be called between the backend's BeginFrame and EndFrame.
func (d *Debugger) Render(view *View) {
	io := imgui.CurrentIO()
	d.Input.WantCaptureMouse = io.WantCaptureMouse()
	d.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if view.Snapshot == nil {
		return
	}
	for _, p := range d.Panels {
		p.Render(view)
	}
}
