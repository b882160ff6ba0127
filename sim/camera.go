package sim

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultFov    = 90
	DefaultAspect = 16.0 / 9.0
	DefaultNear   = 0.01
	DefaultFar    = 4096
)

// Camera is a perspective camera. Rotation holds pitch, yaw and roll in
// degrees. View and Projection are derived on every call and never cached.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3

	Fov    float32 // degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera returns a camera with the default projection.
func NewCamera() Camera {
	return Camera{
		Fov:    DefaultFov,
		Aspect: DefaultAspect,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
}

// View returns the world-to-view matrix: pitch, yaw and roll applied to the
// negated position. World +Z maps to the forward view direction, so the z
// component is not negated.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(c.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Rotation.Z()))).
		Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), c.Position.Z()))
}

func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
