package sim

// Commands buffers structural world changes requested during a tick.
// They are applied after every hook of the tick has run, so entity
// iteration never observes insertions or removals mid-walk.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	entity  Entity
	spawned func(EntityId)
}

type deferCommand struct {
	fn func()
}

// Spawn queues an entity insertion. If spawned is non-nil it receives the
// assigned id once the command is flushed.
func (c *Commands) Spawn(e Entity, spawned func(EntityId)) {
	c.spawns = append(c.spawns, spawnCommand{entity: e, spawned: spawned})
}

// Delete queues an entity removal.
func (c *Commands) Delete(id EntityId) {
	c.deletes = append(c.deletes, id)
}

// Defer queues a function to run after structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Len returns the number of pending commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.defers)
}

// Flush applies all commands to the world, resetting the buffer state.
// Deletes run before spawns so an id can never be both spawned and
// deleted by the same flush.
func (c *Commands) Flush(w *World) {
	for _, id := range c.deletes {
		w.Remove(id)
	}

	for _, cmd := range c.spawns {
		id := w.Insert(cmd.entity)
		if cmd.spawned != nil {
			cmd.spawned(id)
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
}
