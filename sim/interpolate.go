package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

// Interpolate blends previous toward current by alpha and returns a new
// world. The result starts as a copy of previous:
//
//   - entities present in both snapshots have position, scale and rotation
//     lerped component-wise;
//   - entities only in previous keep their previous values;
//   - entities only in current are left out until they reach previous.
//
// Player and camera fields are lerped only when they differ between the
// snapshots. Input fields are not interpolated; they come from current.
// alpha is clamped to [0, 1]; NaN counts as 0.
func Interpolate(previous, current *World, alpha float64) *World {
	if math.IsNaN(alpha) || alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	t := float32(alpha)

	out := previous.Clone()
	out.Actions, out.OldActions = current.Actions, current.OldActions
	out.CursorPos, out.CursorDelta, out.ScrollDelta = current.CursorPos, current.CursorDelta, current.ScrollDelta

	for id, e := range out.Entities() {
		cur := current.Entity(id)
		if cur == nil {
			continue
		}
		e.Position = lerpVec3(e.Position, cur.Position, t)
		e.Scale = lerpVec3(e.Scale, cur.Scale, t)
		e.Rotation = lerpVec3(e.Rotation, cur.Rotation, t)
	}

	prev, cur := &previous.Player, &current.Player
	player := &out.Player
	if prev.Position != cur.Position {
		player.Position = lerpVec3(prev.Position, cur.Position, t)
	}
	if prev.Rotation != cur.Rotation {
		player.Rotation = lerp(prev.Rotation, cur.Rotation, t)
	}

	camera := &player.Camera
	if prev.Camera.Position != cur.Camera.Position {
		camera.Position = lerpVec3(prev.Camera.Position, cur.Camera.Position, t)
	}
	if prev.Camera.Rotation != cur.Camera.Rotation {
		camera.Rotation = lerpVec3(prev.Camera.Rotation, cur.Camera.Rotation, t)
	}

	return out
}
