package sim

import "github.com/go-gl/mathgl/mgl32"

// EntityId identifies an entity within a world. Ids come from a per-world
// counter starting at 1 and are never reused. Their order carries no meaning
// beyond lookup.
type EntityId uint64

// MeshRef names a renderable mesh owned by the presentation layer.
type MeshRef string

// MaterialRef names a material owned by the presentation layer.
type MaterialRef string

// Entity is a simulated object. Rotation holds Euler angles in degrees.
type Entity struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	Mesh     MeshRef
	Material MaterialRef

	// Behavior runs once per fixed tick. Nil means the entity is static.
	Behavior Behavior
}

// NewEntity returns an entity at position with unit scale.
func NewEntity(position mgl32.Vec3, mesh MeshRef, material MaterialRef) Entity {
	return Entity{
		Position: position,
		Scale:    mgl32.Vec3{1, 1, 1},
		Mesh:     mesh,
		Material: material,
	}
}

// LocalTransform rotates about X, then Y, then Z and finally scales.
func (e *Entity) LocalTransform() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(e.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(e.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(e.Rotation.Z()))).
		Mul4(mgl32.Scale3D(e.Scale.X(), e.Scale.Y(), e.Scale.Z()))
}

// WorldTransform translates to the entity's world position.
func (e *Entity) WorldTransform() mgl32.Mat4 {
	return mgl32.Translate3D(e.Position.X(), e.Position.Y(), e.Position.Z())
}

// Model returns WorldTransform * LocalTransform.
func (e *Entity) Model() mgl32.Mat4 {
	return e.WorldTransform().Mul4(e.LocalTransform())
}

func (e *Entity) clone() *Entity {
	c := *e
	if cl, ok := e.Behavior.(Cloner); ok {
		c.Behavior = cl.Clone()
	}
	return &c
}
