package debugui

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
)

var mouseKeys = map[sim.Key]bool{
	sim.MouseLeft:   true,
	sim.MouseRight:  true,
	sim.MouseMiddle: true,
}

// CaptureFilter wraps a device source and hides input that Dear ImGui is
// consuming, so clicks on a debug window do not reach the simulation.
type CaptureFilter struct {
	Source sim.DeviceSource
	State  *InputState
}

func (f *CaptureFilter) Poll() sim.Device {
	device := f.Source.Poll()
	if f.State == nil || (!f.State.WantCaptureMouse && !f.State.WantCaptureKeyboard) {
		return device
	}
	return &capturedDevice{Device: device, state: *f.State}
}

func (f *CaptureFilter) ShouldClose() bool {
	return f.Source.ShouldClose()
}

type capturedDevice struct {
	sim.Device
	state InputState
}

func (d *capturedDevice) IsPressed(key sim.Key) bool {
	if mouseKeys[key] {
		if d.state.WantCaptureMouse {
			return false
		}
	} else if d.state.WantCaptureKeyboard {
		return false
	}
	return d.Device.IsPressed(key)
}

// The cursor keeps moving under ImGui so look deltas stay continuous once
// capture ends. Scroll belongs to whichever window is hovered.
func (d *capturedDevice) Scroll() mgl32.Vec2 {
	if d.state.WantCaptureMouse {
		return mgl32.Vec2{}
	}
	return d.Device.Scroll()
}
