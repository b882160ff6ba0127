package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/present"
	"github.com/plus3/cutlass/sim"
)

const (
	ringCount  = 8
	ringRadius = 384
	ringDepth  = -640
	propScale  = 48
)

// populate fills the demo scene: the ground grid, a ring of spinning cubes,
// oscillating squares and triangles drifting across the grid.
func populate(s *sim.Scheduler) {
	s.Insert(sim.NewEntity(mgl32.Vec3{}, present.MeshWorldClip, "grid"))

	for i := range ringCount {
		angle := 2 * math32.Pi * float32(i) / ringCount
		pos := mgl32.Vec3{
			ringRadius * math32.Cos(angle),
			propScale,
			ringDepth + ringRadius*math32.Sin(angle),
		}

		cube := prop(pos, present.MeshCube, "red")
		cube.Behavior = sim.Spinner{Rate: mgl32.Vec3{0, 45 + 15*float32(i), 0}}
		s.Insert(cube)
	}

	for i := range 4 {
		origin := mgl32.Vec3{-256 + 170*float32(i), 2 * propScale, ringDepth}
		square := prop(origin, present.MeshSquare, "green")
		square.Behavior = sim.Oscillator{
			Origin:    origin,
			Axis:      mgl32.Vec3{0, 1, 0},
			Amplitude: 32,
			Frequency: 0.25 * float32(i+1),
		}
		s.Insert(square)
	}

	for i := range 3 {
		tri := prop(mgl32.Vec3{-present.WorldClipExtent, propScale, -256 - 192*float32(i)}, present.MeshTriangle, "blue")
		tri.Behavior = sim.Drifter{Velocity: mgl32.Vec3{96 + 32*float32(i), 0, 0}}
		s.Insert(tri)
	}

	s.Register(&wrapSystem{Extent: present.WorldClipExtent})
}

func prop(pos mgl32.Vec3, mesh sim.MeshRef, material sim.MaterialRef) sim.Entity {
	e := sim.NewEntity(pos, mesh, material)
	e.Scale = mgl32.Vec3{propScale, propScale, propScale}
	return e
}

// wrapSystem replaces drifters that leave the grid with a fresh entity on
// the opposite edge. The old entity is removed rather than moved, so the
// snapshot never interpolates across the whole grid.
type wrapSystem struct {
	Extent  float32
	Wrapped int
}

func (w *wrapSystem) Execute(frame *sim.TickFrame) {
	for id, e := range frame.World.Entities() {
		if _, ok := e.Behavior.(sim.Drifter); !ok {
			continue
		}
		if math32.Abs(e.Position.X()) <= w.Extent {
			continue
		}

		respawn := *e
		respawn.Position[0] = -math32.Copysign(w.Extent, e.Position.X())
		frame.Commands.Delete(id)
		frame.Commands.Spawn(respawn, func(sim.EntityId) { w.Wrapped++ })
	}
}
