package sim

// TickFrame is handed to every hook that runs during one fixed tick.
type TickFrame struct {
	Tick      uint64  // 1-based index of the tick being run
	Time      float64 // simulation seconds elapsed before this tick
	DeltaTime float64 // the fixed step
	World     *World
	Commands  *Commands
}

// System is a world-level behavior run once per tick after the player and
// entity hooks.
type System interface {
	Execute(frame *TickFrame)
}
