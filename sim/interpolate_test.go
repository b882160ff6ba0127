package sim_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshots builds a previous/current pair where entity 1 moved, entity 2
// was removed and entity 3 was added.
func snapshots() (prev, cur *sim.World) {
	prev = sim.NewWorld()
	prev.Insert(crate(0, 0, 0))
	prev.Insert(crate(5, 5, 5))
	prev.Player.Camera.Position = mgl32.Vec3{0, 65, 0}

	cur = prev.Clone()
	moved := cur.Entity(1)
	moved.Position = mgl32.Vec3{10, 0, -10}
	moved.Scale = mgl32.Vec3{3, 3, 3}
	moved.Rotation = mgl32.Vec3{0, 90, 0}
	cur.Remove(2)
	cur.Insert(crate(9, 9, 9))

	cur.Player.Position = mgl32.Vec3{0, 0, 8}
	cur.Player.Camera.Position = mgl32.Vec3{0, 65, 8}
	return prev, cur
}

func TestInterpolateBoundaries(t *testing.T) {
	prev, cur := snapshots()

	t.Run("alpha 0 reproduces previous", func(t *testing.T) {
		out := sim.Interpolate(prev, cur, 0)
		assert.Equal(t, prev.Checksum(), out.Checksum())
	})

	t.Run("alpha near 1 approaches current", func(t *testing.T) {
		out := sim.Interpolate(prev, cur, 0.999999)
		e := out.Entity(1)
		require.NotNil(t, e)
		assertVec3InDelta(t, cur.Entity(1).Position, e.Position, 1e-3)
		assertVec3InDelta(t, cur.Entity(1).Scale, e.Scale, 1e-3)
		assertVec3InDelta(t, cur.Entity(1).Rotation, e.Rotation, 1e-3)
		assertVec3InDelta(t, cur.Player.Position, out.Player.Position, 1e-3)
	})

	t.Run("midpoint", func(t *testing.T) {
		out := sim.Interpolate(prev, cur, 0.5)
		e := out.Entity(1)
		assert.Equal(t, mgl32.Vec3{5, 0, -5}, e.Position)
		assert.Equal(t, mgl32.Vec3{2, 2, 2}, e.Scale)
		assert.Equal(t, mgl32.Vec3{0, 45, 0}, e.Rotation)
		assert.Equal(t, mgl32.Vec3{0, 0, 4}, out.Player.Position)
		assert.Equal(t, mgl32.Vec3{0, 65, 4}, out.Player.Camera.Position)
	})

	t.Run("alpha outside the unit range is clamped", func(t *testing.T) {
		assert.Equal(t, prev.Checksum(), sim.Interpolate(prev, cur, -3).Checksum())
		assert.Equal(t, prev.Checksum(), sim.Interpolate(prev, cur, math.NaN()).Checksum())
		over := sim.Interpolate(prev, cur, 7)
		assert.Equal(t, cur.Entity(1).Position, over.Entity(1).Position)
	})
}

func TestInterpolateMembership(t *testing.T) {
	prev, cur := snapshots()
	out := sim.Interpolate(prev, cur, 0.5)

	assert.Equal(t, 2, out.Len())

	removed := out.Entity(2)
	require.NotNil(t, removed, "removed entity stays for one more frame")
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, removed.Position)

	assert.Nil(t, out.Entity(3), "added entity waits until it exists in previous")
}

func TestInterpolateDoesNotAlias(t *testing.T) {
	prev, cur := snapshots()
	prevSum, curSum := prev.Checksum(), cur.Checksum()

	out := sim.Interpolate(prev, cur, 0.25)
	out.Entity(1).Position = mgl32.Vec3{100, 100, 100}
	out.Player.Position = mgl32.Vec3{100, 100, 100}
	out.Insert(crate(0, 0, 0))

	assert.Equal(t, prevSum, prev.Checksum())
	assert.Equal(t, curSum, cur.Checksum())

	t.Run("ids are never reassigned", func(t *testing.T) {
		again := sim.Interpolate(prev, cur, 0.75)
		var ids []sim.EntityId
		for id := range again.Entities() {
			ids = append(ids, id)
		}
		assert.Equal(t, []sim.EntityId{1, 2}, ids)
	})
}

func TestInterpolateStationaryPlayer(t *testing.T) {
	prev := sim.NewWorld()
	prev.Player.Position = mgl32.Vec3{1.1, 2.2, 3.3}
	prev.Player.Rotation = 33.3
	prev.Player.Camera.Rotation = mgl32.Vec3{15, 33.3, 0}
	cur := prev.Clone()

	for _, alpha := range []float64{0.1, 0.37, 0.5, 0.99} {
		out := sim.Interpolate(prev, cur, alpha)
		assert.Equal(t, prev.Player.Position, out.Player.Position)
		assert.Equal(t, prev.Player.Rotation, out.Player.Rotation)
		assert.Equal(t, prev.Player.Camera.Rotation, out.Player.Camera.Rotation)
	}

	t.Run("yaw is lerped when it changes", func(t *testing.T) {
		cur.Player.Rotation = 43.3
		out := sim.Interpolate(prev, cur, 0.5)
		assert.InDelta(t, 38.3, out.Player.Rotation, 1e-4)
	})
}

func TestInterpolateCameraRotation(t *testing.T) {
	prev := sim.NewWorld()
	prev.Player.Camera.Rotation = mgl32.Vec3{15, 0, 0}
	cur := prev.Clone()
	cur.Player.Camera.Rotation = mgl32.Vec3{15, 40, 0}

	out := sim.Interpolate(prev, cur, 0.5)
	assertVec3InDelta(t, mgl32.Vec3{15, 20, 0}, out.Player.Camera.Rotation, 1e-5)

	t.Run("position does not leak into rotation", func(t *testing.T) {
		prev.Player.Camera.Position = mgl32.Vec3{0, 65, 0}
		cur.Player.Camera.Position = mgl32.Vec3{-30, 80, 12}

		moved := sim.Interpolate(prev, cur, 0.5)
		assertVec3InDelta(t, mgl32.Vec3{15, 20, 0}, moved.Player.Camera.Rotation, 1e-5)
		assertVec3InDelta(t, mgl32.Vec3{-15, 72.5, 6}, moved.Player.Camera.Position, 1e-5)
	})

	t.Run("quarter step", func(t *testing.T) {
		out := sim.Interpolate(prev, cur, 0.25)
		assertVec3InDelta(t, mgl32.Vec3{15, 10, 0}, out.Player.Camera.Rotation, 1e-5)
	})
}

func TestInterpolateTakesInputFromCurrent(t *testing.T) {
	prev := sim.NewWorld()
	prev.Actions = sim.ActionMoveForward
	cur := prev.Clone()
	cur.OldActions = sim.ActionMoveForward
	cur.Actions = sim.ActionMoveForward | sim.ActionJump
	cur.CursorPos = mgl32.Vec2{40, 30}
	cur.CursorDelta = mgl32.Vec2{4, 3}

	out := sim.Interpolate(prev, cur, 0)
	assert.True(t, out.JustPressed(sim.ActionJump))
	assert.Equal(t, cur.CursorPos, out.CursorPos)
	assert.Equal(t, cur.CursorDelta, out.CursorDelta)
}
