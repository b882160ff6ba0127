package sim_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
	"github.com/stretchr/testify/assert"
)

const fixedStep = 1.0 / 60.0

// Common test entities
func crate(x, y, z float32) sim.Entity {
	return sim.NewEntity(mgl32.Vec3{x, y, z}, "cube", "container")
}

// assertVec3InDelta compares component-wise with an absolute tolerance.
// mgl32's ApproxEqual is relative and fails on rounding noise near zero.
func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v, got %v", i, want, got)
	}
}

func assertMat4InDelta(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d: want %v, got %v", i, want, got)
	}
}

type recordingSystem struct {
	ticks []uint64
	seen  []int
}

func (s *recordingSystem) Execute(frame *sim.TickFrame) {
	s.ticks = append(s.ticks, frame.Tick)
	s.seen = append(s.seen, frame.World.Len())
}

// orderProbe records the order in which entity hooks run.
type orderProbe struct {
	Name string
	Log  *[]string
}

func (p orderProbe) FixedUpdate(frame *sim.TickFrame, e *sim.Entity) {
	*p.Log = append(*p.Log, p.Name)
}

type playerProbe struct {
	Log *[]mgl32.Vec3
}

func (p playerProbe) FixedUpdate(frame *sim.TickFrame, e *sim.Entity) {
	*p.Log = append(*p.Log, frame.World.Player.Position)
}
