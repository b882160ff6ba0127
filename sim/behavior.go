package sim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Behavior is the per-tick update capability of an entity. Implementations
// should be value types; one that holds references must also implement
// Cloner so world copies stay independent.
type Behavior interface {
	FixedUpdate(frame *TickFrame, e *Entity)
}

// Cloner is implemented by behaviors that need a deep copy.
type Cloner interface {
	Clone() Behavior
}

// Spinner rotates an entity at a constant rate in degrees per second.
type Spinner struct {
	Rate mgl32.Vec3
}

func (s Spinner) FixedUpdate(frame *TickFrame, e *Entity) {
	e.Rotation = e.Rotation.Add(s.Rate.Mul(float32(frame.DeltaTime)))
}

// Drifter moves an entity at a constant velocity in units per second.
type Drifter struct {
	Velocity mgl32.Vec3
}

func (d Drifter) FixedUpdate(frame *TickFrame, e *Entity) {
	e.Position = e.Position.Add(d.Velocity.Mul(float32(frame.DeltaTime)))
}

// Oscillator moves an entity back and forth along Axis around Origin.
// The offset is a sine of simulation time, so it never accumulates drift.
type Oscillator struct {
	Origin    mgl32.Vec3
	Axis      mgl32.Vec3
	Amplitude float32
	Frequency float32 // Hz
}

func (o Oscillator) FixedUpdate(frame *TickFrame, e *Entity) {
	t := float32(frame.Time + frame.DeltaTime)
	offset := o.Amplitude * math32.Sin(2*math32.Pi*o.Frequency*t)
	e.Position = o.Origin.Add(o.Axis.Mul(offset))
}
