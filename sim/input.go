package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
)

// Device is a snapshot of raw input for one presentation frame.
type Device interface {
	IsPressed(key Key) bool
	// Cursor returns the absolute cursor position.
	Cursor() mgl32.Vec2
	// Scroll returns the wheel delta accumulated during the frame.
	Scroll() mgl32.Vec2
}

// DeviceSource supplies one Device snapshot per frame and carries the
// external shutdown signal.
type DeviceSource interface {
	Poll() Device
	ShouldClose() bool
}

// DeviceState is a plain Device value, useful for tests and replays.
type DeviceState struct {
	Pressed     []Key
	CursorPos   mgl32.Vec2
	ScrollDelta mgl32.Vec2
}

func (d DeviceState) IsPressed(key Key) bool {
	for _, k := range d.Pressed {
		if k == key {
			return true
		}
	}
	return false
}

func (d DeviceState) Cursor() mgl32.Vec2 { return d.CursorPos }
func (d DeviceState) Scroll() mgl32.Vec2 { return d.ScrollDelta }

// Bindings maps physical keys to the logical actions they trigger.
type Bindings map[Key]Action

// DefaultBindings returns the stock keyboard and mouse layout.
func DefaultBindings() Bindings {
	return Bindings{
		KeyEscape:      ActionCancel,
		KeySpace:       ActionJump,
		KeyW:           ActionMoveForward,
		KeyA:           ActionMoveLeft,
		KeyS:           ActionMoveBack,
		KeyD:           ActionMoveRight,
		KeyLeftControl: ActionCrouch,
		MouseLeft:      ActionPrimary,
		MouseRight:     ActionSecondary,
	}
}

// InputAggregator reduces raw device state into an Action bitset.
// Poll is a pure function of the binding table and the device; Apply also
// tracks the cursor so it can report per-frame cursor motion.
type InputAggregator struct {
	bindings  *intmap.Map[Key, Action]
	cursor    mgl32.Vec2
	cursorSet bool
}

// NewInputAggregator creates an aggregator over a copy of the given table.
func NewInputAggregator(bindings Bindings) *InputAggregator {
	table := intmap.New[Key, Action](len(bindings))
	for key, action := range bindings {
		if action == ActionNone {
			continue
		}
		prev, _ := table.Get(key)
		table.Put(key, prev|action)
	}
	return &InputAggregator{bindings: table}
}

// Len returns the number of bound keys.
func (a *InputAggregator) Len() int {
	return a.bindings.Len()
}

// Poll returns the set of actions with at least one active bound input.
func (a *InputAggregator) Poll(device Device) Action {
	if device == nil {
		return ActionNone
	}

	actions := ActionNone
	a.bindings.ForEach(func(key Key, action Action) bool {
		if device.IsPressed(key) {
			actions |= action
		}
		return true
	})
	return actions
}

// Apply polls the device and writes the result into w, shifting the
// previous frame's actions into OldActions first.
func (a *InputAggregator) Apply(w *World, device Device) {
	actions := a.Poll(device)

	var cursor, scroll mgl32.Vec2
	if device != nil {
		cursor = device.Cursor()
		scroll = device.Scroll()
	}

	if !a.cursorSet {
		a.cursor = cursor
		a.cursorSet = true
	}

	w.CursorDelta = cursor.Sub(a.cursor)
	w.CursorPos = cursor
	w.ScrollDelta = scroll
	a.cursor = cursor

	w.OldActions = w.Actions
	w.Actions = actions
}
