package sim

import "github.com/go-gl/mathgl/mgl32"

const DefaultMoveSpeed = 400 // units per second

// Player is the single player-controlled character of a world. The crouch
// hull and eye height are stored but not used by movement.
type Player struct {
	Position mgl32.Vec3
	Rotation float32 // yaw, degrees

	Hull            mgl32.Vec3
	CrouchHull      mgl32.Vec3
	EyeHeight       float32
	CrouchEyeHeight float32
	MoveSpeed       float32

	Camera Camera
}

// NewPlayer returns a player with the stock hull sizes and eye heights.
func NewPlayer() Player {
	return Player{
		Hull:            mgl32.Vec3{49, 83, 49},
		CrouchHull:      mgl32.Vec3{49, 69, 49},
		EyeHeight:       65,
		CrouchEyeHeight: 51,
		MoveSpeed:       DefaultMoveSpeed,
		Camera:          NewCamera(),
	}
}

// WishDir returns the normalized horizontal movement direction for the
// given actions. Opposing inputs cancel out.
func WishDir(actions Action) mgl32.Vec3 {
	var wish mgl32.Vec3
	if actions&ActionMoveForward != 0 {
		wish[2] += 1
	}
	if actions&ActionMoveBack != 0 {
		wish[2] -= 1
	}
	if actions&ActionMoveRight != 0 {
		wish[0] += 1
	}
	if actions&ActionMoveLeft != 0 {
		wish[0] -= 1
	}

	if wish.Len() == 0 {
		return wish
	}
	return wish.Normalize()
}

// FixedUpdate advances the player by one tick of dt seconds and re-derives
// the camera from the player's position and yaw.
func (p *Player) FixedUpdate(actions Action, dt float32) {
	p.Position = p.Position.Add(WishDir(actions).Mul(p.MoveSpeed * dt))

	p.Camera.Position = p.Position.Add(mgl32.Vec3{0, p.EyeHeight, 0})
	p.Camera.Rotation = mgl32.Vec3{p.Camera.Rotation.X(), p.Rotation, 0}
}
