// Package present adapts the simulation to ebiten: it polls devices into
// sim.DeviceState values and draws interpolated snapshots.
package present

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cutlass/sim"
)

var keyTable = map[sim.Key]ebiten.Key{
	sim.KeyEscape:      ebiten.KeyEscape,
	sim.KeySpace:       ebiten.KeySpace,
	sim.KeyEnter:       ebiten.KeyEnter,
	sim.KeyTab:         ebiten.KeyTab,
	sim.KeyLeftShift:   ebiten.KeyShiftLeft,
	sim.KeyLeftControl: ebiten.KeyControlLeft,
	sim.KeyLeftAlt:     ebiten.KeyAltLeft,
	sim.KeyUp:          ebiten.KeyArrowUp,
	sim.KeyDown:        ebiten.KeyArrowDown,
	sim.KeyLeft:        ebiten.KeyArrowLeft,
	sim.KeyRight:       ebiten.KeyArrowRight,
	sim.KeyA:           ebiten.KeyA,
	sim.KeyB:           ebiten.KeyB,
	sim.KeyC:           ebiten.KeyC,
	sim.KeyD:           ebiten.KeyD,
	sim.KeyE:           ebiten.KeyE,
	sim.KeyF:           ebiten.KeyF,
	sim.KeyG:           ebiten.KeyG,
	sim.KeyH:           ebiten.KeyH,
	sim.KeyI:           ebiten.KeyI,
	sim.KeyJ:           ebiten.KeyJ,
	sim.KeyK:           ebiten.KeyK,
	sim.KeyL:           ebiten.KeyL,
	sim.KeyM:           ebiten.KeyM,
	sim.KeyN:           ebiten.KeyN,
	sim.KeyO:           ebiten.KeyO,
	sim.KeyP:           ebiten.KeyP,
	sim.KeyQ:           ebiten.KeyQ,
	sim.KeyR:           ebiten.KeyR,
	sim.KeyS:           ebiten.KeyS,
	sim.KeyT:           ebiten.KeyT,
	sim.KeyU:           ebiten.KeyU,
	sim.KeyV:           ebiten.KeyV,
	sim.KeyW:           ebiten.KeyW,
	sim.KeyX:           ebiten.KeyX,
	sim.KeyY:           ebiten.KeyY,
	sim.KeyZ:           ebiten.KeyZ,
}

var buttonTable = map[sim.Key]ebiten.MouseButton{
	sim.MouseLeft:   ebiten.MouseButtonLeft,
	sim.MouseRight:  ebiten.MouseButtonRight,
	sim.MouseMiddle: ebiten.MouseButtonMiddle,
}

// Device polls ebiten's keyboard, mouse and wheel state. It implements
// sim.DeviceSource.
type Device struct {
	keys []sim.Key
}

// NewDevice creates a device that reports only the given keys. With no
// keys it reports every key it knows.
func NewDevice(keys ...sim.Key) *Device {
	if len(keys) == 0 {
		keys = sim.Keys()
	}
	return &Device{keys: keys}
}

// NewDeviceFor creates a device that reports the keys bound in bindings.
func NewDeviceFor(bindings sim.Bindings) *Device {
	keys := make([]sim.Key, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	return NewDevice(keys...)
}

func (d *Device) Poll() sim.Device {
	state := sim.DeviceState{Pressed: make([]sim.Key, 0, 4)}

	for _, k := range d.keys {
		if pressed(k) {
			state.Pressed = append(state.Pressed, k)
		}
	}

	x, y := ebiten.CursorPosition()
	state.CursorPos = mgl32.Vec2{float32(x), float32(y)}

	wx, wy := ebiten.Wheel()
	state.ScrollDelta = mgl32.Vec2{float32(wx), float32(wy)}

	return state
}

// ShouldClose reports a close request. It only fires once the program has
// called ebiten.SetWindowClosingHandled(true).
func (d *Device) ShouldClose() bool {
	return ebiten.IsWindowBeingClosed()
}

func pressed(k sim.Key) bool {
	if key, ok := keyTable[k]; ok {
		return ebiten.IsKeyPressed(key)
	}
	if button, ok := buttonTable[k]; ok {
		return ebiten.IsMouseButtonPressed(button)
	}
	return false
}
